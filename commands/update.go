package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/mochi-sys/teatally/updater"
)

func (bot *Bot) update(ctx *bcr.Context) (err error) {
	if bot.Updater == nil {
		_, err = ctx.Send("Asset syncing is not configured.")
		return
	}

	res, err := bot.Updater.Check(context.Background())
	bot.Stats.IncSync()
	if err != nil {
		if errors.Is(err, updater.ErrCheckInFlight) {
			_, err = ctx.Send("A check is already running, try again in a moment.")
			return
		}
		bot.Sugar.Errorf("Manual check failed: %v", err)
		_, err = ctx.Replyc(bcr.ColourRed, "Check failed: %v", err)
		return
	}

	if res.UpToDate {
		_, err = ctx.Reply("Assets are up to date at `%v`.", res.Ref)
		return
	}

	_, err = ctx.Reply("Updated assets to `%v`, copied %v files.", res.Ref, res.Copied)
	return
}

func (bot *Bot) updateStatus(ctx *bcr.Context) (err error) {
	if bot.Updater == nil {
		_, err = ctx.Send("Asset syncing is not configured.")
		return
	}

	state := bot.Updater.State()
	conf := bot.Updater.Config()

	ref := state.CommitHash
	if ref == "" {
		ref = "(never synced)"
	}
	last := "(never)"
	if !state.UpdateTime.IsZero() {
		last = fmt.Sprintf("<t:%v:R>", state.UpdateTime.Unix())
	}

	e := discord.Embed{
		Title: "Asset updater",
		Color: bcr.ColourPurple,
		Fields: []discord.EmbedField{
			{Name: "Repository", Value: bot.Config.AssetRepo, Inline: true},
			{Name: "Current ref", Value: ref, Inline: true},
			{Name: "Last update", Value: last, Inline: true},
			{Name: "Check interval", Value: conf.Interval().String(), Inline: true},
			{Name: "Auto update", Value: onOff(conf.AutoUpdate), Inline: true},
			{Name: "Notifications", Value: onOff(conf.NotifyAdmin), Inline: true},
			{Name: "Loop running", Value: onOff(bot.Updater.Running()), Inline: true},
		},
	}

	_, err = ctx.Send("", e)
	return
}

func (bot *Bot) updateInterval(ctx *bcr.Context) (err error) {
	if bot.Updater == nil {
		_, err = ctx.Send("Asset syncing is not configured.")
		return
	}

	d, err := time.ParseDuration(ctx.Args[0])
	if err != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "Couldn't parse ``%v`` as a duration, try something like `30m` or `2h`.", bcr.EscapeBackticks(ctx.Args[0]))
		return
	}

	set, err := bot.Updater.SetInterval(d)
	if err != nil {
		return bot.ReportCtx(ctx, err)
	}

	if set != d {
		_, err = ctx.Reply("Interval set to %v (the minimum; %v is too aggressive).", set, d)
		return
	}
	_, err = ctx.Reply("Interval set to %v.", set)
	return
}

func (bot *Bot) updateAuto(ctx *bcr.Context) (err error) {
	if bot.Updater == nil {
		_, err = ctx.Send("Asset syncing is not configured.")
		return
	}

	on, ok := parseOnOff(ctx.Args[0])
	if !ok {
		_, err = ctx.Replyc(bcr.ColourRed, "Expected `on` or `off`.")
		return
	}

	if err := bot.Updater.SetAutoUpdate(on); err != nil {
		return bot.ReportCtx(ctx, err)
	}

	_, err = ctx.Reply("Automatic update checks turned %v.", onOff(on))
	return
}

func (bot *Bot) updateNotify(ctx *bcr.Context) (err error) {
	if bot.Updater == nil {
		_, err = ctx.Send("Asset syncing is not configured.")
		return
	}

	on, ok := parseOnOff(ctx.Args[0])
	if !ok {
		_, err = ctx.Replyc(bcr.ColourRed, "Expected `on` or `off`.")
		return
	}

	if err := bot.Updater.SetNotify(on); err != nil {
		return bot.ReportCtx(ctx, err)
	}

	_, err = ctx.Reply("Update notifications turned %v.", onOff(on))
	return
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (on, ok bool) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "enable", "enabled":
		return true, true
	case "off", "false", "no", "disable", "disabled":
		return false, true
	}
	return false, false
}
