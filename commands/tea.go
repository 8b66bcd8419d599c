package commands

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
)

func (bot *Bot) tea(ctx *bcr.Context) (err error) {
	target := bot.Target(ctx)

	if bot.Config.Blocked(target.ID) {
		_, err = ctx.Reply("%v politely declines your tea.", bot.DisplayName(ctx.Message.GuildID, target.ID))
		return
	}

	// a pot of tea lasts 1-60 minutes and pours 1-100 ml
	duration := round2(1 + rand.Float64()*59)
	volume := round2(1 + rand.Float64()*99)

	name := bot.DisplayName(ctx.Message.GuildID, target.ID)

	r, created, err := bot.Store.Upsert(target.ID.String(), 1, volume)
	if err != nil {
		return bot.ReportCtx(ctx, err)
	}
	if err := bot.Store.RecordMembership(target.ID.String(), bot.GroupID(ctx)); err != nil {
		return bot.ReportCtx(ctx, err)
	}

	bot.Stats.IncTea()

	footer := fmt.Sprintf("Cup #%v • %v ml in total", r.Num, r.Vol)
	if created {
		footer = "Their very first cup!"
	}

	e := discord.Embed{
		Description: fmt.Sprintf("You shared a %v minute pot of tea with **%v**, pouring them %v ml. 🍵", duration, name, volume),
		Color:       bcr.ColourPurple,
		Thumbnail: &discord.EmbedThumbnail{
			URL: target.AvatarURL(),
		},
		Footer: &discord.EmbedFooter{Text: footer},
	}

	_, err = ctx.Send("", e)
	return
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
