package actuator

import (
	"context"
	"sync"
)

// Recorder is an Actuator that records every call as an Event. It is safe
// for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetError makes every subsequent call return err after recording.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) record(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *Recorder) MoveCursorTo(x, y float64) error {
	return r.record(MoveCursorTo(x, y))
}

func (r *Recorder) PressButton() error {
	return r.record(PressButton())
}

func (r *Recorder) ReleaseButton() error {
	return r.record(ReleaseButton())
}

func (r *Recorder) LaunchAction(_ context.Context, name string) error {
	return r.record(LaunchAction(name, ""))
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
