// Package actuator executes the abstract input events produced each tick:
// cursor moves, button press and release, and named launch actions.
package actuator

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies an Event.
type Kind string

const (
	KindMoveCursor Kind = "move_cursor"
	KindPress      Kind = "press"
	KindRelease    Kind = "release"
	KindLaunch     Kind = "launch"
)

// Event is one action emitted by a tick.
type Event struct {
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Action string  `json:"action,omitempty"`
	// Label is the gesture that triggered a launch, if any.
	Label string `json:"label,omitempty"`
}

func MoveCursorTo(x, y float64) Event {
	return Event{Kind: KindMoveCursor, X: x, Y: y}
}

func PressButton() Event {
	return Event{Kind: KindPress}
}

func ReleaseButton() Event {
	return Event{Kind: KindRelease}
}

func LaunchAction(name, label string) Event {
	return Event{Kind: KindLaunch, Action: name, Label: label}
}

// Pointer drives the system cursor and primary button.
type Pointer interface {
	MoveCursorTo(x, y float64) error
	PressButton() error
	ReleaseButton() error
}

// Launcher performs named actions such as "volume-up" or "open-url".
type Launcher interface {
	LaunchAction(ctx context.Context, name string) error
}

// Actuator executes every kind of Event.
type Actuator interface {
	Pointer
	Launcher
}

type composite struct {
	Pointer
	Launcher
}

// Compose joins a Pointer and a Launcher into an Actuator.
func Compose(p Pointer, l Launcher) Actuator {
	return composite{Pointer: p, Launcher: l}
}

// ErrUnknownEvent is returned by Dispatch for an event of unknown kind.
var ErrUnknownEvent = errors.New("unknown event kind")

// Dispatch executes a single event.
func Dispatch(ctx context.Context, a Actuator, ev Event) error {
	switch ev.Kind {
	case KindMoveCursor:
		return a.MoveCursorTo(ev.X, ev.Y)
	case KindPress:
		return a.PressButton()
	case KindRelease:
		return a.ReleaseButton()
	case KindLaunch:
		return a.LaunchAction(ctx, ev.Action)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
}

// DispatchAll executes events in order. A failing event does not stop the
// rest; all failures are joined into the returned error.
func DispatchAll(ctx context.Context, a Actuator, events []Event) error {
	var errs []error
	for _, ev := range events {
		if err := Dispatch(ctx, a, ev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ev.Kind, err))
		}
	}
	return errors.Join(errs...)
}
