package commands

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/utils/sendpart"
	"github.com/starshine-sys/bcr"

	"github.com/mochi-sys/teatally/assets"
)

func (bot *Bot) art(ctx *bcr.Context) (err error) {
	key, ok := bot.Aliases.Resolve(ctx.RawArgs)
	if !ok {
		_, err = ctx.Replyc(bcr.ColourRed, "I don't know anyone called ``%v``.", bcr.EscapeBackticks(ctx.RawArgs))
		return
	}

	path, err := assets.RandomImage(bot.Config.AssetDir(), key)
	if err != nil {
		if errors.Is(err, assets.ErrNoImages) {
			_, err = ctx.Reply("There's no art for **%v** yet.", key)
			return
		}
		return bot.ReportCtx(ctx, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return bot.ReportCtx(ctx, err)
	}
	defer f.Close()

	_, err = ctx.State.SendMessageComplex(ctx.Channel.ID, api.SendMessageData{
		Files: []sendpart.File{{
			Name:   filepath.Base(path),
			Reader: f,
		}},
	})
	return err
}
