package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/starshine-sys/bcr"
)

// ErrorContext is the context for a reported error.
type ErrorContext struct {
	Command string

	UserID  discord.UserID
	GuildID discord.GuildID
}

// Report logs an error and forwards it to Sentry, if enabled.
func (bot *Bot) Report(ctx ErrorContext, err error) *sentry.EventID {
	bot.Sugar.Errorf("Error in %v: %v", ctx.Command, err)

	if bot.Hub == nil {
		return nil
	}

	hub := bot.Hub.Clone()

	data := map[string]interface{}{}
	if ctx.Command != "" {
		data["command"] = ctx.Command
	}
	if ctx.GuildID.IsValid() {
		data["guild"] = ctx.GuildID
	}

	hub.ConfigureScope(func(scope *sentry.Scope) {
		if ctx.UserID.IsValid() {
			scope.SetUser(sentry.User{ID: ctx.UserID.String()})
			data["user"] = ctx.UserID
		}
	})

	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Data:      data,
		Level:     sentry.LevelError,
		Timestamp: time.Now().UTC(),
	}, nil)

	id := hub.CaptureException(err)
	if id == nil {
		uid := uuid.New().String()
		id = (*sentry.EventID)(&uid)
	}
	return id
}

// ReportCtx reports an error from a command handler and shows the user a
// generic failure message with the event ID. The host process never sees the
// error; a single command's fault stays contained.
func (bot *Bot) ReportCtx(ctx *bcr.Context, e error) (err error) {
	var guildID discord.GuildID
	if ctx.Guild != nil {
		guildID = ctx.Guild.ID
	}

	id := bot.Report(ErrorContext{
		Command: strings.Join(ctx.FullCommandPath, " "),
		UserID:  ctx.Author.ID,
		GuildID: guildID,
	}, e)

	s := "Internal error occurred."
	var embeds []discord.Embed
	if id != nil {
		s = fmt.Sprintf("Error code: ``%v``", bcr.EscapeBackticks(string(*id)))
		desc := "An internal error has occurred. If this issue persists, please contact the bot developer with the error code above."
		if bot.Config.SupportServer != "" {
			desc = strings.NewReplacer("the bot developer",
				fmt.Sprintf("the bot developer in the [support server](%v)", bot.Config.SupportServer)).Replace(desc)
		}

		embeds = append(embeds, discord.Embed{
			Title:       "Internal error occurred",
			Description: desc,
			Color:       bcr.ColourRed,
			Footer: &discord.EmbedFooter{
				Text: string(*id),
			},
			Timestamp: discord.NowTimestamp(),
		})
	}

	_, err = ctx.Send(s, embeds...)
	return err
}
