// Package bot ties the router, store, updater, and alias table together.
package bot

import (
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/getsentry/sentry-go"
	"github.com/starshine-sys/bcr"
	"go.uber.org/zap"

	"github.com/mochi-sys/teatally/assets"
	"github.com/mochi-sys/teatally/stats"
	"github.com/mochi-sys/teatally/store"
	"github.com/mochi-sys/teatally/updater"
)

// Intents are the gateway intents the bot needs: guilds and members for
// nickname resolution, messages for prefix commands.
const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMembers |
	gateway.IntentGuildMessages |
	gateway.IntentDirectMessages

// Bot is the base for all command handlers.
type Bot struct {
	*bcr.Router

	Sugar  *zap.SugaredLogger
	Config Config

	Store   *store.Store
	Aliases *assets.Table
	Updater *updater.Monitor
	Stats   *stats.Client

	Hub *sentry.Hub

	Start time.Time

	names *ttlcache.Cache
}

// New creates a Bot on top of an existing router. The updater is wired but
// not started; main starts it after the gateway connection is up.
func New(r *bcr.Router, c Config, sugar *zap.SugaredLogger, hub *sentry.Hub) (*Bot, error) {
	b := &Bot{
		Router: r,
		Sugar:  sugar,
		Config: c,
		Hub:    hub,
		Start:  time.Now().UTC(),
		names:  ttlcache.NewCache(),
	}
	b.names.SetTTL(10 * time.Minute)

	var err error
	b.Store, err = store.New(c.StorePath(), sugar)
	if err != nil {
		return nil, errors.Wrap(err, "opening counter store")
	}

	b.Aliases, err = assets.LoadTable(c.AliasFile)
	if err != nil {
		return nil, errors.Wrap(err, "loading alias table")
	}
	sugar.Infof("Loaded %v asset aliases", b.Aliases.Len())

	if c.AssetRepo != "" {
		owner, repo := splitRepo(c.AssetRepo)
		b.Updater, err = updater.New(
			updater.NewGitHubFetcher(owner, repo, c.AssetBranch),
			updater.NewGitSnapshotter(c.AssetRepoURL(), c.AssetBranch, sugar),
			c.AssetDir(), c.SyncStatePath(), c.SyncConfigPath(), sugar,
		)
		if err != nil {
			return nil, errors.Wrap(err, "creating updater")
		}
		b.Updater.Notify = b.notifySync
	}

	if c.Influx.URL != "" {
		b.Stats = stats.New(c.Influx.URL, c.Influx.Token, c.Influx.Organization, c.Influx.Database, sugar)
		b.Stats.StoreCounts = b.Store.Counts
	}

	return b, nil
}

// notifySync DMs the owner with the outcome of a sync cycle.
func (bot *Bot) notifySync(res updater.Result, err error) {
	bot.Stats.IncSync()

	if !bot.Config.Owner.IsValid() {
		return
	}

	s, _ := bot.StateFromGuildID(0)
	ch, cErr := s.CreatePrivateChannel(bot.Config.Owner)
	if cErr != nil {
		bot.Sugar.Errorf("Error opening owner DM channel: %v", cErr)
		return
	}

	msg := "Asset update failed: " + errString(err)
	if err == nil {
		msg = fmt.Sprintf("Assets updated to `%v` (%v files)", res.Ref, res.Copied)
	}

	if _, err := s.SendMessage(ch.ID, msg); err != nil {
		bot.Sugar.Errorf("Error sending sync notification: %v", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func splitRepo(s string) (owner, repo string) {
	for i := range s {
		if s[i] == '/' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}
