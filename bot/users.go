package bot

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/mochi-sys/teatally/store"
)

// Target resolves the user a command acts on: the first argument if it
// parses to a user, otherwise the first mentioned user that isn't the bot,
// otherwise the command's author.
func (bot *Bot) Target(ctx *bcr.Context) discord.User {
	if len(ctx.Args) > 0 {
		if u, err := ctx.ParseUser(ctx.RawArgs); err == nil && u.ID != bot.Router.Bot.ID {
			return *u
		}
	}

	for _, m := range ctx.Message.Mentions {
		if m.ID != bot.Router.Bot.ID {
			return m.User
		}
	}

	return ctx.Author
}

// GroupID returns the command's guild ID, or the private sentinel group in
// DMs.
func (bot *Bot) GroupID(ctx *bcr.Context) string {
	if ctx.Message.GuildID.IsValid() {
		return ctx.Message.GuildID.String()
	}
	return store.PrivateGroup
}

// DisplayName resolves a user ID to a display name: the guild nickname if
// set, then the username, falling back to the raw ID when nothing can be
// fetched. Lookups are cached for a few minutes, leaderboards hit this once
// per row.
func (bot *Bot) DisplayName(guildID discord.GuildID, id discord.UserID) string {
	key := guildID.String() + "/" + id.String()
	if v, err := bot.names.Get(key); err == nil {
		return v.(string)
	}

	name := id.String()

	s, _ := bot.StateFromGuildID(guildID)
	if guildID.IsValid() {
		if m, err := s.Member(guildID, id); err == nil {
			if m.Nick != "" {
				name = m.Nick
			} else {
				name = m.User.Username
			}
		}
	}
	if name == id.String() {
		if u, err := s.User(id); err == nil {
			name = u.Username
		} else {
			bot.Sugar.Debugf("Error fetching user %v: %v", id, err)
		}
	}

	bot.names.Set(key, name)
	return name
}
