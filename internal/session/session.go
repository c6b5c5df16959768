// Package session runs one gesture-control session: each tick takes the hands
// seen in a frame and turns them into actuator events.
//
// A Session is not safe for concurrent use. Ticks are expected to arrive one
// at a time from a single capture loop, and every component evaluated within
// a tick sees the same now.
package session

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/gesturectl/internal/actuator"
	"github.com/ayusman/gesturectl/internal/cursor"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/gesture"
)

// ErrInvalidConfig is returned for inconsistent session settings.
var ErrInvalidConfig = errors.New("invalid session configuration")

// Config configures a Session.
type Config struct {
	// Ruleset selects the gesture rule table, see gesture.RulesFor.
	Ruleset string

	Pinch  gesture.PinchConfig
	Zoom   gesture.ZoomConfig
	Cursor cursor.Config

	EnableGestures bool
	EnableCursor   bool
	EnableDrag     bool
	EnableZoom     bool

	// ReleaseOnHandLoss ends an active drag on the first tick without a hand.
	// When false the drag persists until the hand returns and opens.
	ReleaseOnHandLoss bool

	Bindings []Binding
}

// DefaultConfig returns a gestures-only configuration for a screen of the
// given size.
func DefaultConfig(screenWidth, screenHeight int) Config {
	return Config{
		Ruleset: gesture.RulesetDefault,
		Pinch:   gesture.DefaultPinchConfig(),
		Zoom:    gesture.DefaultZoomConfig(),
		Cursor: cursor.Config{
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
			EdgeMargin:   0.15,
			Smoothing:    cursor.DefaultSmootherConfig(),
		},
		EnableGestures: true,
		Bindings:       DefaultBindings(),
	}
}

// Validate checks cross-component constraints. Each component validates its
// own settings when the Session is built.
func (c Config) Validate() error {
	if c.EnableDrag && c.EnableZoom {
		return fmt.Errorf("%w: drag and zoom both read the pinch distance and cannot be enabled together", ErrInvalidConfig)
	}
	return nil
}

// Result describes one tick.
type Result struct {
	Present  bool                `json:"present"`
	Label    gesture.Label       `json:"label"`
	Fingers  gesture.FingerState `json:"fingers"`
	Pinch    float64             `json:"pinch"`
	Zone     gesture.PinchZone   `json:"zone,omitempty"`
	Dragging bool                `json:"dragging"`

	// Cursor is the smoothed screen position when HasCursor is set.
	Cursor    cursor.Point `json:"cursor"`
	HasCursor bool         `json:"has_cursor"`

	Events []actuator.Event `json:"events,omitempty"`
}

// Session holds the state carried across ticks.
type Session struct {
	config Config
	log    *zap.Logger

	matcher  *gesture.Matcher
	tracker  *gesture.CooldownTracker
	pinch    *gesture.PinchMachine
	zoom     *gesture.ZoomDetector
	cursor   *cursor.Controller
	bindings map[gesture.Label]Binding
}

// New validates config and builds a Session.
func New(config Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	rules, err := gesture.RulesFor(config.Ruleset)
	if err != nil {
		return nil, err
	}
	matcher, err := gesture.NewMatcher(rules)
	if err != nil {
		return nil, err
	}
	pinch, err := gesture.NewPinchMachine(config.Pinch)
	if err != nil {
		return nil, err
	}
	tracker := gesture.NewCooldownTracker()
	zoom, err := gesture.NewZoomDetector(config.Zoom, tracker)
	if err != nil {
		return nil, err
	}
	ctrl, err := cursor.NewController(config.Cursor)
	if err != nil {
		return nil, err
	}
	bindings, err := indexBindings(config.Bindings)
	if err != nil {
		return nil, err
	}

	return &Session{
		config:   config,
		log:      log,
		matcher:  matcher,
		tracker:  tracker,
		pinch:    pinch,
		zoom:     zoom,
		cursor:   ctrl,
		bindings: bindings,
	}, nil
}

// Config returns the session configuration with the current bindings.
func (s *Session) Config() Config {
	c := s.config
	c.Bindings = s.Bindings()
	return c
}

// Tick processes the hands detected at now in a frame of frameW x frameH
// pixels. Only the first hand is used. A tick without a hand is not an error;
// a hand with the wrong number of landmarks is.
func (s *Session) Tick(now time.Time, hands []detector.Snapshot, frameW, frameH int) (Result, error) {
	res := Result{Label: gesture.LabelNone}

	if len(hands) == 0 || !hands[0].Present() {
		if s.config.ReleaseOnHandLoss && s.pinch.Release(now) == gesture.TransitionRelease {
			s.log.Debug("hand lost, releasing drag")
			res.Events = append(res.Events, actuator.ReleaseButton())
		}
		res.Dragging = s.pinch.Dragging()
		return res, nil
	}

	hand := hands[0]
	fingers, err := gesture.Classify(hand)
	if err != nil {
		return Result{}, err
	}
	d, err := gesture.PinchDistance(hand)
	if err != nil {
		return Result{}, err
	}

	res.Present = true
	res.Fingers = fingers
	res.Pinch = d
	res.Zone = s.config.Pinch.Zone(d)
	res.Label = s.matcher.MatchPinch(fingers, d)

	if s.config.EnableGestures {
		if b, ok := s.bindings[res.Label]; ok && s.tracker.ShouldFire(b.Class, now, b.Cooldown) {
			s.log.Debug("gesture fired",
				zap.String("label", string(res.Label)),
				zap.String("action", b.Action))
			res.Events = append(res.Events, actuator.LaunchAction(b.Action, string(res.Label)))
		}
	}

	if s.config.EnableCursor {
		tip := hand[detector.IndexTip]
		p, moved := s.cursor.Update(tip.X, tip.Y, frameW, frameH)
		res.Cursor = p
		res.HasCursor = true
		if moved {
			res.Events = append(res.Events, actuator.MoveCursorTo(p.X, p.Y))
		}
	}

	if s.config.EnableDrag {
		switch s.pinch.Update(d, now) {
		case gesture.TransitionPress:
			res.Events = append(res.Events, actuator.PressButton())
		case gesture.TransitionRelease:
			res.Events = append(res.Events, actuator.ReleaseButton())
		}
	}
	res.Dragging = s.pinch.Dragging()

	if s.config.EnableZoom {
		if dir := s.zoom.Update(d, now); dir != gesture.ZoomNone {
			res.Events = append(res.Events, actuator.LaunchAction(dir.String(), string(res.Label)))
		}
	}

	return res, nil
}

// SetBindings replaces the label bindings. On error the previous bindings
// stay in effect. Cooldown timers are kept, keyed by class.
func (s *Session) SetBindings(bindings []Binding) error {
	m, err := indexBindings(bindings)
	if err != nil {
		return err
	}
	s.bindings = m
	return nil
}

// Bindings returns the current bindings ordered by label.
func (s *Session) Bindings() []Binding {
	return sortedBindings(s.bindings)
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	return s.pinch.Dragging()
}

// Reset returns the drag machine to IDLE and clears the cursor history and
// every cooldown timer. It emits no events; a caller resetting mid-drag must
// release the button itself.
func (s *Session) Reset() {
	s.pinch.Reset()
	s.cursor.Reset()
	s.tracker.Reset()
}
