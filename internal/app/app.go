// Package app runs the capture pipeline: camera frames go to the hand
// detector, landmarks go to the gesture session, and the resulting events go
// to the actuator.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/gesturectl/internal/actuator"
	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/session"
	"github.com/ayusman/gesturectl/internal/store"
)

// DefaultHistoryRetention is how long fired actions are kept.
const DefaultHistoryRetention = 30 * 24 * time.Hour

// ErrMissingComponent is returned by New when a required collaborator is nil.
var ErrMissingComponent = errors.New("missing app component")

// Config wires the pipeline collaborators. Store is optional; without it
// bindings come from the session and nothing is persisted.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Session  *session.Session
	Actuator actuator.Actuator
	Store    *store.Store
	Logger   *zap.Logger

	// Defaults seed the store when it holds no bindings. Nil uses the
	// session's bindings.
	Defaults []session.Binding

	HistoryRetention time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Status is a point-in-time view of the pipeline.
type Status struct {
	Enabled    bool          `json:"enabled"`
	Running    bool          `json:"running"`
	Present    bool          `json:"present"`
	LastLabel  gesture.Label `json:"last_label"`
	LastAction string        `json:"last_action,omitempty"`
	Dragging   bool          `json:"dragging"`
}

// Update is pushed to listeners after every processed frame.
type Update struct {
	Time time.Time `json:"time"`
	session.Result
}

// Listener receives updates on the pipeline goroutine and must not block.
type Listener func(Update)

// App orchestrates gesture detection and action execution.
type App struct {
	config   Config
	log      *zap.Logger
	camera   capture.Camera
	detector detector.Detector
	actuator actuator.Actuator
	now      func() time.Time

	// dispatchMu orders a tick and its pointer events against SetEnabled
	// and Stop. Acquired before mu.
	dispatchMu sync.Mutex

	mu         sync.RWMutex
	session    *session.Session
	enabled    bool
	lastLabel  gesture.Label
	lastAction string
	present    bool
	listeners  map[int]Listener
	nextID     int

	ctx      context.Context
	cancel   context.CancelFunc
	stopCh   chan struct{}
	loopDone chan struct{}
	launches sync.WaitGroup
}

// New builds an App. The enabled flag is restored from the store and
// defaults to true.
func New(config Config) (*App, error) {
	switch {
	case config.Camera == nil:
		return nil, fmt.Errorf("%w: camera", ErrMissingComponent)
	case config.Detector == nil:
		return nil, fmt.Errorf("%w: detector", ErrMissingComponent)
	case config.Session == nil:
		return nil, fmt.Errorf("%w: session", ErrMissingComponent)
	case config.Actuator == nil:
		return nil, fmt.Errorf("%w: actuator", ErrMissingComponent)
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	if config.HistoryRetention <= 0 {
		config.HistoryRetention = DefaultHistoryRetention
	}

	a := &App{
		config:    config,
		log:       log,
		camera:    config.Camera,
		detector:  config.Detector,
		actuator:  config.Actuator,
		now:       now,
		session:   config.Session,
		enabled:   true,
		lastLabel: gesture.LabelNone,
		listeners: make(map[int]Listener),
	}

	if config.Store != nil {
		enabled, err := config.Store.Settings().GetBool(store.SettingEnabled, true)
		if err != nil {
			return nil, fmt.Errorf("load enabled setting: %w", err)
		}
		a.enabled = enabled
	}

	return a, nil
}

// LoadBindings replaces the session bindings with the enabled bindings in
// the store. The defaults are written the first time only, so a user who
// deletes every binding keeps an empty set.
func (a *App) LoadBindings() error {
	st := a.config.Store
	if st == nil {
		return nil
	}

	seeded, err := st.Settings().GetBool(store.SettingSeeded, false)
	if err != nil {
		return fmt.Errorf("load seeded setting: %w", err)
	}
	if !seeded {
		count, err := st.Bindings().Count()
		if err != nil {
			return err
		}
		if count == 0 {
			if err := a.seedBindings(); err != nil {
				return err
			}
		}
		if err := st.Settings().SetBool(store.SettingSeeded, true); err != nil {
			return fmt.Errorf("mark bindings seeded: %w", err)
		}
	}

	rows, err := st.Bindings().List()
	if err != nil {
		return err
	}
	if seeded {
		a.warnOverriddenCooldowns(rows)
	}

	bindings := make([]session.Binding, 0, len(rows))
	for _, b := range rows {
		if !b.Enabled {
			continue
		}
		bindings = append(bindings, session.Binding{
			Label:    gesture.Label(b.Label),
			Action:   b.Action,
			Class:    b.Class,
			Cooldown: b.Cooldown,
		})
	}

	a.mu.Lock()
	err = a.session.SetBindings(bindings)
	a.mu.Unlock()
	if err != nil {
		return fmt.Errorf("apply stored bindings: %w", err)
	}

	a.log.Info("bindings loaded", zap.Int("count", len(bindings)))
	return nil
}

// warnOverriddenCooldowns logs stored bindings whose cooldown no longer
// matches the configured default. Stored values win once seeded.
func (a *App) warnOverriddenCooldowns(rows []*store.Binding) {
	defaults := make(map[string]time.Duration, len(a.config.Defaults))
	for _, b := range a.config.Defaults {
		defaults[string(b.Label)] = b.Cooldown
	}
	for _, b := range rows {
		want, ok := defaults[b.Label]
		if !ok || want == b.Cooldown {
			continue
		}
		a.log.Warn("stored cooldown differs from configuration, using stored value",
			zap.String("label", b.Label),
			zap.Duration("stored", b.Cooldown),
			zap.Duration("configured", want))
	}
}

func (a *App) seedBindings() error {
	defaults := a.config.Defaults
	if defaults == nil {
		a.mu.RLock()
		defaults = a.session.Bindings()
		a.mu.RUnlock()
	}

	for _, b := range defaults {
		err := a.config.Store.Bindings().Create(&store.Binding{
			Label:    string(b.Label),
			Action:   b.Action,
			Class:    b.Class,
			Cooldown: b.Cooldown,
			Enabled:  true,
		})
		if err != nil {
			return fmt.Errorf("seed binding %s: %w", b.Label, err)
		}
	}
	a.log.Info("seeded default bindings", zap.Int("count", len(defaults)))
	return nil
}

// SetEnabled turns gesture processing on or off and persists the choice.
// Disabling mid-drag releases the button.
func (a *App) SetEnabled(enabled bool) error {
	a.dispatchMu.Lock()
	defer a.dispatchMu.Unlock()

	a.mu.Lock()
	a.enabled = enabled
	var release bool
	if !enabled {
		release = a.session.Dragging()
		a.session.Reset()
		a.present = false
		a.lastLabel = gesture.LabelNone
	}
	a.mu.Unlock()

	if release {
		if err := a.actuator.ReleaseButton(); err != nil {
			a.log.Warn("release on disable failed", zap.Error(err))
		}
	}

	a.log.Info("gesture control toggled", zap.Bool("enabled", enabled))

	if a.config.Store != nil {
		return a.config.Store.Settings().SetBool(store.SettingEnabled, enabled)
	}
	return nil
}

// IsEnabled reports whether frames are being processed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Status returns the current pipeline status.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Status{
		Enabled:    a.enabled,
		Running:    a.stopCh != nil,
		Present:    a.present,
		LastLabel:  a.lastLabel,
		LastAction: a.lastAction,
		Dragging:   a.session.Dragging(),
	}
}

// Subscribe registers l for updates and returns a function removing it.
func (a *App) Subscribe(l Listener) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = l
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// Start opens the camera and runs the pipeline until Stop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	if st := a.config.Store; st != nil {
		cutoff := a.now().Add(-a.config.HistoryRetention)
		if n, err := st.History().Prune(cutoff); err != nil {
			a.log.Warn("history prune failed", zap.Error(err))
		} else if n > 0 {
			a.log.Info("pruned action history", zap.Int64("removed", n))
		}
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.stopCh = make(chan struct{})
	a.loopDone = make(chan struct{})
	go a.runPipeline(a.ctx, a.stopCh, a.loopDone)

	a.log.Info("detection pipeline started", zap.Int("fps", a.camera.FPS()))
	return nil
}

// Stop halts the pipeline, waits for in-flight launches and releases the
// camera and detector. A held button is released.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done, cancel := a.stopCh, a.loopDone, a.cancel
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
	cancel()
	a.launches.Wait()

	a.dispatchMu.Lock()
	a.mu.RLock()
	dragging := a.session.Dragging()
	a.mu.RUnlock()
	if dragging {
		if err := a.actuator.ReleaseButton(); err != nil {
			a.log.Warn("release on stop failed", zap.Error(err))
		}
	}
	a.dispatchMu.Unlock()
	if err := a.camera.Close(); err != nil {
		a.log.Warn("error closing camera", zap.Error(err))
	}
	if err := a.detector.Close(); err != nil {
		a.log.Warn("error closing detector", zap.Error(err))
	}

	a.log.Info("detection pipeline stopped")
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}
