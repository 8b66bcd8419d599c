// Package bot runs the bot.
package bot

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/ws"
	"github.com/getsentry/sentry-go"
	_ "github.com/joho/godotenv/autoload"
	"github.com/starshine-sys/bcr"
	"github.com/urfave/cli/v2"

	"github.com/mochi-sys/teatally/bot"
	"github.com/mochi-sys/teatally/commands"
	"github.com/mochi-sys/teatally/logsetup"
	"github.com/mochi-sys/teatally/web"
)

var Command = &cli.Command{
	Name:   "bot",
	Usage:  "Run the bot",
	Action: run,
}

func run(_ *cli.Context) error {
	zap, err := logsetup.SetupLogging()
	if err != nil {
		return errors.Wrap(err, "setting up logging")
	}
	sugar := zap.Sugar()

	ws.WSDebug = sugar.Named("ws").Debug
	ws.WSError = func(err error) {
		sugar.Named("ws").Error(err)
	}

	log := sugar.Named("init")

	conf, err := bot.ConfigFromEnv()
	if err != nil {
		return errors.Wrap(err, "reading configuration")
	}

	// sentry, if enabled
	var hub *sentry.Hub
	if conf.SentryURL != "" {
		err = sentry.Init(sentry.ClientOptions{Dsn: conf.SentryURL})
		if err != nil {
			return errors.Wrap(err, "initialising Sentry")
		}
		hub = sentry.CurrentHub()
	}

	r, err := bcr.NewWithIntents(
		conf.Token,
		[]discord.UserID{conf.Owner},
		conf.Prefixes,
		bot.Intents,
	)
	if err != nil {
		return errors.Wrap(err, "creating router")
	}
	r.EmbedColor = bcr.ColourPurple

	b, err := bot.New(r, conf, sugar, hub)
	if err != nil {
		return errors.Wrap(err, "creating bot")
	}

	commands.Init(b)

	if err := r.ShardManager.Open(context.Background()); err != nil {
		return errors.Wrap(err, "connecting to Discord")
	}

	defer func() {
		if b.Updater != nil {
			b.Updater.Stop()
		}
		r.ShardManager.Close()
		log.Info("Disconnected from Discord.")
	}()

	s, _ := r.StateFromGuildID(0)
	botUser, err := s.Me()
	if err != nil {
		return errors.Wrap(err, "fetching bot user")
	}
	log.Infof("User: %v#%v (%v)", botUser.Username, botUser.Discriminator, botUser.ID)
	r.Bot = botUser
	// normally creating a Context would do this, but as we set the user
	// above, that doesn't work
	r.Prefixes = append(r.Prefixes, "<@"+r.Bot.ID.String()+">", "<@!"+r.Bot.ID.String()+">")

	// sync slash commands *if needed*
	if !strings.EqualFold(os.Getenv("SYNC_COMMANDS"), "false") {
		if err := r.SyncCommands(); err != nil {
			log.Errorf("Error syncing slash commands: %v", err)
		} else {
			log.Info("Synced slash commands")
		}
	}

	if b.Updater != nil {
		b.Updater.StartIfEnabled()
	}

	if conf.Port != "" {
		go web.Serve(b, conf.Port)
	}

	log.Info("Connected to Discord. Press Ctrl-C or send an interrupt signal to stop.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info("Interrupt signal received. Shutting down...")
	return nil
}
