package updater

import (
	"os"
	"path/filepath"
	"time"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
)

// MinCheckInterval is the floor for the check interval, so a misconfigured
// bot can't hammer the remote API.
const MinCheckInterval = 5 * time.Minute

// DefaultCheckInterval is used when no config file exists yet.
const DefaultCheckInterval = time.Hour

// State records the last applied remote reference. It is only written after
// a snapshot has fully succeeded; a failed cycle leaves the previous state
// on disk.
type State struct {
	CommitHash string    `json:"commit_hash"`
	UpdateTime time.Time `json:"update_time"`
}

// Config is the runtime-mutable updater configuration.
// CheckInterval is stored as seconds in the JSON document.
type Config struct {
	CheckInterval int64 `json:"check_interval"`
	AutoUpdate    bool  `json:"auto_update"`
	NotifyAdmin   bool  `json:"notify_admin"`
}

// Interval returns the check interval as a duration, with the floor applied.
func (c Config) Interval() time.Duration {
	d := time.Duration(c.CheckInterval) * time.Second
	if d < MinCheckInterval {
		return MinCheckInterval
	}
	return d
}

func loadState(path string) (State, error) {
	var s State

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrap(err, "reading sync state")
	}
	return s, errors.Wrap(json.Unmarshal(b, &s), "unmarshaling sync state")
}

func loadConfig(path string) (Config, error) {
	c := Config{
		CheckInterval: int64(DefaultCheckInterval / time.Second),
		AutoUpdate:    true,
		NotifyAdmin:   true,
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, errors.Wrap(err, "reading updater config")
	}
	return c, errors.Wrap(json.Unmarshal(b, &c), "unmarshaling updater config")
}

// saveJSON writes v to path through a temp file and a rename.
func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating directory")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "writing file")
	}
	return errors.Wrap(os.Rename(tmp, path), "replacing file")
}
