package bot

import (
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

// Config is the bot's static configuration, read from the environment
// (godotenv loads a .env file if one exists).
type Config struct {
	Token    string
	Prefixes []string
	Owner    discord.UserID

	// DataDir holds the counter store, sync state, updater config, and the
	// synced asset directory.
	DataDir   string
	AliasFile string

	// AssetRepo is the GitHub repository ("owner/name") mirrored into the
	// asset directory. AssetBranch may be empty for the default branch.
	AssetRepo   string
	AssetBranch string

	// BlockedUsers refuse to share tea.
	BlockedUsers []discord.UserID

	SentryURL     string
	SupportServer string
	Port          string

	Influx InfluxConfig
}

type InfluxConfig struct {
	URL          string
	Token        string
	Organization string
	Database     string
}

// ConfigFromEnv reads and validates the configuration.
func ConfigFromEnv() (c Config, err error) {
	c.Token = os.Getenv("TOKEN")
	if c.Token == "" {
		return c, errors.New("no token given (set TOKEN)")
	}

	c.Prefixes = strings.Split(os.Getenv("PREFIXES"), ",")
	if len(c.Prefixes) == 1 && c.Prefixes[0] == "" {
		c.Prefixes = []string{"tt!"}
	}

	sf, _ := discord.ParseSnowflake(os.Getenv("OWNER"))
	c.Owner = discord.UserID(sf)

	c.DataDir = os.Getenv("DATA_DIR")
	if c.DataDir == "" {
		c.DataDir = "data"
	}

	c.AliasFile = os.Getenv("ALIAS_FILE")
	if c.AliasFile == "" {
		c.AliasFile = filepath.Join(c.DataDir, "aliases.yaml")
	}

	c.AssetRepo = os.Getenv("ASSET_REPO")
	if c.AssetRepo != "" && len(strings.Split(c.AssetRepo, "/")) != 2 {
		return c, errors.Errorf("invalid ASSET_REPO %q, expected owner/name", c.AssetRepo)
	}
	c.AssetBranch = os.Getenv("ASSET_BRANCH")

	for _, raw := range strings.Split(os.Getenv("BLOCKED_USERS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		sf, err := discord.ParseSnowflake(raw)
		if err != nil {
			return c, errors.Wrapf(err, "invalid BLOCKED_USERS entry %q", raw)
		}
		c.BlockedUsers = append(c.BlockedUsers, discord.UserID(sf))
	}

	c.SentryURL = os.Getenv("SENTRY_URL")
	c.SupportServer = os.Getenv("SUPPORT_SERVER")
	c.Port = os.Getenv("PORT")

	c.Influx = InfluxConfig{
		URL:          os.Getenv("INFLUX_URL"),
		Token:        os.Getenv("INFLUX_TOKEN"),
		Organization: os.Getenv("INFLUX_ORG"),
		Database:     os.Getenv("INFLUX_DB"),
	}

	return c, nil
}

// StorePath is the counter store's JSON file.
func (c Config) StorePath() string { return filepath.Join(c.DataDir, "records.json") }

// SyncStatePath is the updater's persisted state file.
func (c Config) SyncStatePath() string { return filepath.Join(c.DataDir, "sync_state.json") }

// SyncConfigPath is the updater's runtime config file.
func (c Config) SyncConfigPath() string { return filepath.Join(c.DataDir, "updater.json") }

// AssetDir is the local mirror of the asset repository.
func (c Config) AssetDir() string { return filepath.Join(c.DataDir, "assets") }

// AssetRepoURL is the clone URL for the asset repository.
func (c Config) AssetRepoURL() string { return "https://github.com/" + c.AssetRepo }

// Blocked reports whether the user refuses interactions.
func (c Config) Blocked(id discord.UserID) bool {
	for _, b := range c.BlockedUsers {
		if b == id {
			return true
		}
	}
	return false
}
