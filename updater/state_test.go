package updater

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigInterval(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		want    time.Duration
	}{
		{"default", int64(DefaultCheckInterval / time.Second), time.Hour},
		{"above floor", 600, 10 * time.Minute},
		{"at floor", 300, 5 * time.Minute},
		{"below floor", 30, MinCheckInterval},
		{"zero", 0, MinCheckInterval},
		{"negative", -60, MinCheckInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{CheckInterval: tt.seconds}
			if got := c.Interval(); got != tt.want {
				t.Errorf("Interval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(filepath.Join(t.TempDir(), "updater.json"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if c.Interval() != DefaultCheckInterval {
		t.Errorf("expected default interval %v, got %v", DefaultCheckInterval, c.Interval())
	}
	if !c.AutoUpdate || !c.NotifyAdmin {
		t.Errorf("expected auto update and notifications on by default, got %+v", c)
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	s, err := loadState(filepath.Join(t.TempDir(), "sync_state.json"))
	if err != nil {
		t.Fatalf("loading state: %v", err)
	}
	if s.CommitHash != "" || !s.UpdateTime.IsZero() {
		t.Errorf("expected zero state, got %+v", s)
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sync_state.json")
	in := State{CommitHash: "abc123", UpdateTime: time.Now().UTC().Truncate(time.Second)}

	if err := saveJSON(path, in); err != nil {
		t.Fatalf("saving: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected temp file to be renamed away")
	}

	out, err := loadState(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if !out.UpdateTime.Equal(in.UpdateTime) || out.CommitHash != in.CommitHash {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}
