// Package updater keeps the local asset directory mirrored to a remote git
// repository of images.
//
// A cycle fetches the remote commit hash, compares it to the last applied
// one, and only when they differ clones the repository (shallow) and copies
// its images into the asset directory. The new hash is persisted only after
// the copy succeeded, so the local state is at worst stale, never corrupt.
package updater

import (
	"context"
	"sync"
	"time"

	"emperror.dev/errors"
	"go.uber.org/zap"
)

// ErrCheckInFlight is returned when a check is requested while another cycle
// is still running.
const ErrCheckInFlight = errors.Sentinel("updater: a check is already running")

// RefFetcher fetches the remote content reference.
type RefFetcher interface {
	FetchRef(ctx context.Context) (string, error)
}

// Snapshotter materializes the remote asset collection into dest and returns
// the number of files copied.
type Snapshotter interface {
	Snapshot(ctx context.Context, dest string) (int, error)
}

// Result describes a completed check cycle.
type Result struct {
	UpToDate bool
	Ref      string
	Copied   int
}

// Monitor runs the check/update cycle, both on a timer and on demand.
type Monitor struct {
	fetcher     RefFetcher
	snapshotter Snapshotter

	assetDir   string
	statePath  string
	configPath string

	sugar *zap.SugaredLogger

	// Notify, if set, is called with the outcome of every updating or
	// failed cycle while the config's NotifyAdmin flag is on.
	Notify func(res Result, err error)

	mu       sync.Mutex
	state    State
	conf     Config
	inFlight bool

	loopMu     sync.Mutex
	loopCancel context.CancelFunc
	loopDone   chan struct{}
}

// New loads persisted state and config and returns a Monitor. The background
// loop is not started; call Start (or rely on AutoUpdate via StartIfEnabled).
func New(fetcher RefFetcher, snapshotter Snapshotter, assetDir, statePath, configPath string, sugar *zap.SugaredLogger) (*Monitor, error) {
	state, err := loadState(statePath)
	if err != nil {
		return nil, err
	}
	conf, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	return &Monitor{
		fetcher:     fetcher,
		snapshotter: snapshotter,
		assetDir:    assetDir,
		statePath:   statePath,
		configPath:  configPath,
		sugar:       sugar.Named("updater"),
		state:       state,
		conf:        conf,
	}, nil
}

// State returns a copy of the persisted sync state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Config returns a copy of the current configuration.
func (m *Monitor) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conf
}

// Running reports whether the background loop is active.
func (m *Monitor) Running() bool {
	m.loopMu.Lock()
	defer m.loopMu.Unlock()
	return m.loopCancel != nil
}

// Check runs a single cycle. It returns ErrCheckInFlight if another cycle is
// already running; cycles never run concurrently.
func (m *Monitor) Check(ctx context.Context) (Result, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return Result{}, ErrCheckInFlight
	}
	m.inFlight = true
	local := m.state.CommitHash
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	remote, err := m.fetcher.FetchRef(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "checking remote")
	}

	if remote == local {
		m.sugar.Debugf("Assets up to date at %v", remote)
		return Result{UpToDate: true, Ref: remote}, nil
	}

	m.sugar.Infof("Remote moved from %v to %v, updating assets", local, remote)

	copied, err := m.snapshotter.Snapshot(ctx, m.assetDir)
	if err != nil {
		return Result{}, errors.Wrap(err, "updating assets")
	}

	state := State{CommitHash: remote, UpdateTime: time.Now().UTC()}
	if err := saveJSON(m.statePath, state); err != nil {
		return Result{}, errors.Wrap(err, "persisting sync state")
	}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	return Result{Ref: remote, Copied: copied}, nil
}

// SetInterval updates the check interval. The floor is enforced; the running
// loop picks the new interval up on its next cycle.
func (m *Monitor) SetInterval(d time.Duration) (time.Duration, error) {
	if d < MinCheckInterval {
		d = MinCheckInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.conf.CheckInterval
	m.conf.CheckInterval = int64(d / time.Second)
	if err := saveJSON(m.configPath, m.conf); err != nil {
		m.conf.CheckInterval = prev
		return 0, err
	}
	return d, nil
}

// SetAutoUpdate toggles the background loop on or off and persists the flag.
func (m *Monitor) SetAutoUpdate(on bool) error {
	m.mu.Lock()
	prev := m.conf.AutoUpdate
	m.conf.AutoUpdate = on
	err := saveJSON(m.configPath, m.conf)
	if err != nil {
		m.conf.AutoUpdate = prev
	}
	m.mu.Unlock()
	if err != nil {
		return err
	}

	if on {
		m.Start()
	} else {
		m.Stop()
	}
	return nil
}

// SetNotify toggles out-of-band notifications and persists the flag.
func (m *Monitor) SetNotify(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.conf.NotifyAdmin
	m.conf.NotifyAdmin = on
	if err := saveJSON(m.configPath, m.conf); err != nil {
		m.conf.NotifyAdmin = prev
		return err
	}
	return nil
}

// StartIfEnabled starts the loop when the persisted config says so.
func (m *Monitor) StartIfEnabled() {
	if m.Config().AutoUpdate {
		m.Start()
	}
}

// Start launches the background loop. Starting an already running monitor is
// a no-op.
func (m *Monitor) Start() {
	m.loopMu.Lock()
	defer m.loopMu.Unlock()

	if m.loopCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.loopCancel = cancel
	m.loopDone = done

	go m.loop(ctx, done)
	m.sugar.Infof("Started background loop, checking every %v", m.Config().Interval())
}

// Stop cancels the background loop and waits for it to exit. Stopping a
// stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.loopMu.Lock()
	cancel, done := m.loopCancel, m.loopDone
	m.loopCancel, m.loopDone = nil, nil
	m.loopMu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	m.sugar.Info("Stopped background loop")
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	// a timer rather than a ticker, so interval changes take effect on the
	// next cycle
	timer := time.NewTimer(m.Config().Interval())
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			m.runCycle(ctx)
			timer.Reset(m.Config().Interval())
		case <-ctx.Done():
			return
		}
	}
}

// runCycle runs a timer-triggered check. Failures are logged (and notified)
// only; the next tick tries again.
func (m *Monitor) runCycle(ctx context.Context) {
	res, err := m.Check(ctx)
	switch {
	case err != nil:
		if errors.Is(err, ErrCheckInFlight) {
			return
		}
		m.sugar.Errorf("Scheduled check failed: %v", err)
	case res.UpToDate:
		return
	default:
		m.sugar.Infof("Assets updated to %v (%v files)", res.Ref, res.Copied)
	}

	if m.Notify != nil && m.Config().NotifyAdmin {
		m.Notify(res, err)
	}
}
