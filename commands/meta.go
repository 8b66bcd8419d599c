package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"
	"github.com/starshine-sys/bcr"

	"github.com/mochi-sys/teatally/common"
)

func (bot *Bot) ping(ctx *bcr.Context) (err error) {
	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	// this will return 0ms in the first minute after the bot is restarted
	// can't do much about that though
	heartbeat := ctx.State.Gateway().EchoBeat().Sub(ctx.State.Gateway().SentBeat()).Round(time.Millisecond)

	users, groups := bot.Store.Counts()

	e := discord.Embed{
		Color:     bcr.ColourPurple,
		Footer:    &discord.EmbedFooter{Text: fmt.Sprintf("Version %v (%v on %v/%v)", common.Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)},
		Timestamp: discord.NowTimestamp(),
		Fields: []discord.EmbedField{
			{
				Name:   "Ping",
				Value:  fmt.Sprintf("Heartbeat: %v", heartbeat),
				Inline: true,
			},
			{
				Name:   "Memory usage",
				Value:  fmt.Sprintf("%v / %v", humanize.Bytes(stats.Alloc), humanize.Bytes(stats.Sys)),
				Inline: true,
			},
			{
				Name:   "Goroutines",
				Value:  fmt.Sprint(runtime.NumGoroutine()),
				Inline: true,
			},
			{
				Name: "Uptime",
				Value: fmt.Sprintf(
					"%v\n(Since <t:%v:D> <t:%v:T>)",
					bcr.HumanizeDuration(bcr.DurationPrecisionSeconds, time.Since(bot.Start)),
					bot.Start.Unix(), bot.Start.Unix(),
				),
				Inline: true,
			},
			{
				Name:   "Records",
				Value:  fmt.Sprintf("%v users in %v groups", humanize.Comma(int64(users)), humanize.Comma(int64(groups))),
				Inline: true,
			},
		},
	}

	_, err = ctx.Send("", e)
	return
}

func (bot *Bot) help(ctx *bcr.Context) (err error) {
	if len(ctx.Args) > 0 {
		return ctx.Help(ctx.Args)
	}

	e := discord.Embed{
		Title: "Help",
		Description: fmt.Sprintf(`%v counts the cups of tea shared on your server and keeps a leaderboard.
It also serves art from a community image collection.`, bot.Router.Bot.Username),
		Color: bcr.ColourPurple,

		Fields: []discord.EmbedField{
			{
				Name:  "Tea commands",
				Value: "`tea [user]`: share a pot of tea\n`record [user]`: show someone's record\n`affinity [user]` / `steep [user]`: derived scores\n`top`: this server's leaderboard",
			},
			{
				Name:  "Art",
				Value: "`art <name>`: a random image for the given name (nicknames work too)",
			},
			{
				Name:  "Info commands",
				Value: "`help`: show this help\n`ping`: show the bot's latency\n`invite`: get an invite link for the bot",
			},
		},
	}

	if bot.Config.SupportServer != "" {
		e.Fields = append(e.Fields, discord.EmbedField{
			Name:  "Support",
			Value: fmt.Sprintf("Use this link to join the support server: %v", bot.Config.SupportServer),
		})
	}

	_, err = ctx.Send("", e)
	return
}

func (bot *Bot) invite(ctx *bcr.Context) (err error) {
	perms := discord.PermissionViewChannel |
		discord.PermissionReadMessageHistory |
		discord.PermissionSendMessages |
		discord.PermissionEmbedLinks |
		discord.PermissionAttachFiles |
		discord.PermissionUseExternalEmojis

	link := fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%v&permissions=%v&scope=bot%%20applications.commands", bot.Router.Bot.ID, perms)

	_, err = ctx.Sendf("Use the following link to invite me to your server: <%v>", link)
	return
}
