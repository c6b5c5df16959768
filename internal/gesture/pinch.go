package gesture

import (
	"fmt"
	"time"
)

// DragState is the state of a PinchMachine.
type DragState int

const (
	StateIdle DragState = iota
	StateDragging
)

func (s DragState) String() string {
	if s == StateDragging {
		return "DRAGGING"
	}
	return "IDLE"
}

// Transition is the action produced by a PinchMachine update.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionPress
	TransitionRelease
)

func (t Transition) String() string {
	switch t {
	case TransitionPress:
		return "PRESS"
	case TransitionRelease:
		return "RELEASE"
	default:
		return "NONE"
	}
}

// PinchConfig holds the hysteresis band and press cooldown of a PinchMachine.
type PinchConfig struct {
	// PinchThreshold is the distance (pixels) below which a press starts.
	PinchThreshold float64
	// ReleaseThreshold is the distance (pixels) above which a drag ends.
	ReleaseThreshold float64
	// Cooldown is the minimum time since the last transition before a press.
	Cooldown time.Duration
}

// DefaultPinchConfig returns the thresholds tuned for a 640x480 webcam frame.
func DefaultPinchConfig() PinchConfig {
	return PinchConfig{
		PinchThreshold:   55,
		ReleaseThreshold: 80,
		Cooldown:         150 * time.Millisecond,
	}
}

// Validate checks that the thresholds form a non-empty hysteresis band.
func (c PinchConfig) Validate() error {
	if c.PinchThreshold <= 0 {
		return fmt.Errorf("%w: pinch threshold %.1f must be positive", ErrInvalidConfig, c.PinchThreshold)
	}
	if c.PinchThreshold >= c.ReleaseThreshold {
		return fmt.Errorf("%w: pinch threshold %.1f must be below release threshold %.1f",
			ErrInvalidConfig, c.PinchThreshold, c.ReleaseThreshold)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: pinch cooldown %s is negative", ErrInvalidConfig, c.Cooldown)
	}
	return nil
}

// PinchMachine turns a stream of thumb-index distances into press/release
// transitions. Distances between the two thresholds never change state.
type PinchMachine struct {
	config         PinchConfig
	state          DragState
	lastTransition time.Time
	transitioned   bool
}

// NewPinchMachine creates a machine in the IDLE state.
func NewPinchMachine(config PinchConfig) (*PinchMachine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &PinchMachine{config: config}, nil
}

// Config returns the machine's configuration.
func (m *PinchMachine) Config() PinchConfig {
	return m.config
}

// State returns the current state.
func (m *PinchMachine) State() DragState {
	return m.state
}

// Dragging reports whether the machine is in the DRAGGING state.
func (m *PinchMachine) Dragging() bool {
	return m.state == StateDragging
}

// Update feeds one distance sample taken at now.
//
// IDLE presses when d is below the pinch threshold and the press cooldown has
// passed since the last transition. DRAGGING releases whenever d exceeds the
// release threshold; release is never gated.
func (m *PinchMachine) Update(d float64, now time.Time) Transition {
	switch m.state {
	case StateIdle:
		if d < m.config.PinchThreshold && m.cooledDown(now) {
			m.state = StateDragging
			m.lastTransition = now
			m.transitioned = true
			return TransitionPress
		}
	case StateDragging:
		if d > m.config.ReleaseThreshold {
			m.state = StateIdle
			m.lastTransition = now
			m.transitioned = true
			return TransitionRelease
		}
	}
	return TransitionNone
}

// Release forces the machine to IDLE, e.g. when the integrator decides a lost
// hand should end a drag. It returns TransitionRelease if a drag was active.
func (m *PinchMachine) Release(now time.Time) Transition {
	if m.state != StateDragging {
		return TransitionNone
	}
	m.state = StateIdle
	m.lastTransition = now
	m.transitioned = true
	return TransitionRelease
}

// Reset returns the machine to its initial IDLE state with no transition history.
func (m *PinchMachine) Reset() {
	m.state = StateIdle
	m.lastTransition = time.Time{}
	m.transitioned = false
}

func (m *PinchMachine) cooledDown(now time.Time) bool {
	return !m.transitioned || now.Sub(m.lastTransition) > m.config.Cooldown
}

// PinchZone buckets a thumb-index distance for display.
type PinchZone string

const (
	ZonePinched PinchZone = "PINCHED"
	ZoneClose   PinchZone = "CLOSE"
	ZoneFar     PinchZone = "FAR"
)

// Zone classifies d against the machine's thresholds.
func (c PinchConfig) Zone(d float64) PinchZone {
	switch {
	case d < c.PinchThreshold:
		return ZonePinched
	case d < c.ReleaseThreshold:
		return ZoneClose
	default:
		return ZoneFar
	}
}
