package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/ayusman/gesturectl/internal/gesture"
)

// Cooldown classes of the default bindings. Bindings sharing a class share
// one timer.
const (
	ClassHang   = "hang"
	ClassRock   = "rock"
	ClassVolume = "volume"
)

// Binding attaches a launch action to a gesture label.
type Binding struct {
	Label    gesture.Label `json:"label"`
	Action   string        `json:"action"`
	Class    string        `json:"class"`
	Cooldown time.Duration `json:"cooldown"`
}

// Validate checks that the binding names a real label, an action and a class.
func (b Binding) Validate() error {
	if _, ok := gesture.ParseLabel(string(b.Label)); !ok || b.Label == gesture.LabelNone {
		return fmt.Errorf("%w: cannot bind label %q", ErrInvalidConfig, b.Label)
	}
	if b.Action == "" {
		return fmt.Errorf("%w: binding for %s has no action", ErrInvalidConfig, b.Label)
	}
	if b.Class == "" {
		return fmt.Errorf("%w: binding for %s has no cooldown class", ErrInvalidConfig, b.Label)
	}
	if b.Cooldown < 0 {
		return fmt.Errorf("%w: binding for %s has negative cooldown", ErrInvalidConfig, b.Label)
	}
	return nil
}

// DefaultBindings returns the launcher's stock gesture actions. Open palm and
// fist share the volume class, so alternating them cannot double the rate.
func DefaultBindings() []Binding {
	return []Binding{
		{Label: gesture.LabelHangLoose, Action: "open-url", Class: ClassHang, Cooldown: 10 * time.Second},
		{Label: gesture.LabelPicksUp, Action: "open-url", Class: ClassHang, Cooldown: 10 * time.Second},
		{Label: gesture.LabelRockOn, Action: "open-spotify", Class: ClassRock, Cooldown: 10 * time.Second},
		{Label: gesture.LabelOpenPalm, Action: "volume-up", Class: ClassVolume, Cooldown: 100 * time.Millisecond},
		{Label: gesture.LabelFist, Action: "volume-down", Class: ClassVolume, Cooldown: 100 * time.Millisecond},
	}
}

func indexBindings(bindings []Binding) (map[gesture.Label]Binding, error) {
	m := make(map[gesture.Label]Binding, len(bindings))
	for _, b := range bindings {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if _, dup := m[b.Label]; dup {
			return nil, fmt.Errorf("%w: label %s bound twice", ErrInvalidConfig, b.Label)
		}
		m[b.Label] = b
	}
	return m, nil
}

func sortedBindings(m map[gesture.Label]Binding) []Binding {
	out := make([]Binding, 0, len(m))
	for _, b := range m {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
