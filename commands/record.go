package commands

import (
	"fmt"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/mochi-sys/teatally/store"
)

// targetRecord resolves the command's target and fetches their record. When
// no record exists it sends the user-facing message and returns ok = false.
func (bot *Bot) targetRecord(ctx *bcr.Context) (u discord.User, name string, r store.UserRecord, ok bool, err error) {
	u = bot.Target(ctx)
	name = bot.DisplayName(ctx.Message.GuildID, u.ID)

	r, err = bot.Store.Get(u.ID.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_, err = ctx.Reply("%v hasn't had any tea yet.", name)
			return u, name, r, false, err
		}
		return u, name, r, false, bot.ReportCtx(ctx, err)
	}
	return u, name, r, true, nil
}

func (bot *Bot) record(ctx *bcr.Context) (err error) {
	u, name, r, ok, err := bot.targetRecord(ctx)
	if !ok {
		return
	}

	e := discord.Embed{
		Title: name,
		Color: bcr.ColourPurple,
		Thumbnail: &discord.EmbedThumbnail{
			URL: u.AvatarURL(),
		},
		Fields: []discord.EmbedField{
			{Name: "Cups of tea", Value: fmt.Sprint(r.Num), Inline: true},
			{Name: "Total poured", Value: fmt.Sprintf("%v ml", r.Vol), Inline: true},
		},
	}

	_, err = ctx.Send("", e)
	return
}

func (bot *Bot) affinity(ctx *bcr.Context) (err error) {
	u, name, r, ok, err := bot.targetRecord(ctx)
	if !ok {
		return
	}

	e := discord.Embed{
		Title: name,
		Color: bcr.ColourPurple,
		Thumbnail: &discord.EmbedThumbnail{
			URL: u.AvatarURL(),
		},
		Fields: []discord.EmbedField{
			{Name: "Affinity", Value: fmt.Sprint(store.Affinity(r.Vol))},
		},
		Footer: &discord.EmbedFooter{Text: "A fifth of 0.001% of the total poured, capped at 10000."},
	}

	_, err = ctx.Send("", e)
	return
}

func (bot *Bot) steep(ctx *bcr.Context) (err error) {
	u, name, r, ok, err := bot.targetRecord(ctx)
	if !ok {
		return
	}

	e := discord.Embed{
		Title: name,
		Color: bcr.ColourPurple,
		Thumbnail: &discord.EmbedThumbnail{
			URL: u.AvatarURL(),
		},
		Fields: []discord.EmbedField{
			{Name: "Steep level", Value: fmt.Sprint(store.Steep(r.Vol))},
		},
		Footer: &discord.EmbedFooter{Text: "0.5% of the total poured."},
	}

	_, err = ctx.Send("", e)
	return
}
