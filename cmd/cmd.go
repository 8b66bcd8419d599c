// Package cmd is the bot's command line interface.
package cmd

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mochi-sys/teatally/cmd/bot"
	"github.com/mochi-sys/teatally/common"
)

var app = &cli.App{
	Name:    "Teatally",
	Usage:   "Discord tea counting bot",
	Version: common.Version(),

	Commands: []*cli.Command{
		bot.Command,
	},
}

func Run() error {
	return app.Run(os.Args)
}
