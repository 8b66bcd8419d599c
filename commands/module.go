// Package commands implements all of the bot's commands.
package commands

import (
	"github.com/spf13/pflag"
	"github.com/starshine-sys/bcr"

	"github.com/mochi-sys/teatally/bot"
)

// Bot ...
type Bot struct {
	*bot.Bot
}

// Init registers all commands on the router.
func Init(b *bot.Bot) {
	bot := &Bot{Bot: b}

	bot.AddCommand(&bcr.Command{
		Name:    "tea",
		Summary: "Share a pot of tea with someone (or yourself).",
		Usage:   "[user]",

		Command: bot.counted(bot.tea),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "record",
		Aliases: []string{"cups"},
		Summary: "Show someone's tea record.",
		Usage:   "[user]",

		Command: bot.counted(bot.record),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "affinity",
		Summary: "Show someone's affinity.",
		Usage:   "[user]",

		Command: bot.counted(bot.affinity),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "steep",
		Summary: "Show someone's steep level.",
		Usage:   "[user]",

		Command: bot.counted(bot.steep),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "top",
		Aliases: []string{"leaderboard", "lb"},
		Summary: "Show this server's tea leaderboard.",
		Flags: func(fs *pflag.FlagSet) *pflag.FlagSet {
			fs.IntP("limit", "l", defaultRankingLimit, "Number of places to show.")
			return fs
		},

		Command: bot.counted(bot.top),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "art",
		Aliases: []string{"image"},
		Summary: "Show a random image for the given name.",
		Usage:   "<name>",
		Args:    bcr.MinArgs(1),

		Command: bot.counted(bot.art),
	})

	u := bot.AddCommand(&bcr.Command{
		Name:      "update",
		Summary:   "Check the asset repository for updates.",
		OwnerOnly: true,

		Command: bot.counted(bot.update),
	})

	u.AddSubcommand(&bcr.Command{
		Name:      "status",
		Summary:   "Show the updater's state and configuration.",
		OwnerOnly: true,

		Command: bot.counted(bot.updateStatus),
	})

	u.AddSubcommand(&bcr.Command{
		Name:      "interval",
		Summary:   "Set the check interval (e.g. 30m, 2h).",
		Usage:     "<duration>",
		Args:      bcr.MinArgs(1),
		OwnerOnly: true,

		Command: bot.counted(bot.updateInterval),
	})

	u.AddSubcommand(&bcr.Command{
		Name:      "auto",
		Summary:   "Turn automatic update checks on or off.",
		Usage:     "<on|off>",
		Args:      bcr.MinArgs(1),
		OwnerOnly: true,

		Command: bot.counted(bot.updateAuto),
	})

	u.AddSubcommand(&bcr.Command{
		Name:      "notify",
		Summary:   "Turn update notifications on or off.",
		Usage:     "<on|off>",
		Args:      bcr.MinArgs(1),
		OwnerOnly: true,

		Command: bot.counted(bot.updateNotify),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "ping",
		Summary: "Show the bot's latency.",

		Command: bot.counted(bot.ping),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "help",
		Summary: "Show information about the bot, or a specific command.",
		Usage:   "[command]",

		Command: bot.counted(bot.help),
	})

	bot.AddCommand(&bcr.Command{
		Name:    "invite",
		Summary: "Get an invite link for the bot.",

		Command: bot.counted(bot.invite),
	})
}

// counted wraps a handler so every invocation shows up in the statistics.
func (bot *Bot) counted(f func(*bcr.Context) error) func(*bcr.Context) error {
	return func(ctx *bcr.Context) error {
		bot.Stats.IncCommand()
		return f(ctx)
	}
}
