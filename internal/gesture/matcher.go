package gesture

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by constructors given out-of-range settings.
var ErrInvalidConfig = errors.New("invalid gesture configuration")

// Ruleset names accepted by RulesFor.
const (
	RulesetDefault = "default"
	RulesetPicksUp = "picks-up"
)

// Rule maps one exact finger-state pattern to a label.
type Rule struct {
	Pattern FingerState
	Label   Label

	// MaxPinch, when positive, additionally requires a known thumb-index
	// distance strictly below it.
	MaxPinch float64
}

// Matcher resolves finger states to labels using an ordered rule table.
// The first rule whose pattern equals the observed vector wins.
type Matcher struct {
	rules []Rule
}

// DefaultRules returns the standard table. Hang loose and rock on come first
// so they keep priority over the palm/fist volume gestures if patterns are
// ever loosened.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: Fingers(true, false, false, false, true), Label: LabelHangLoose},
		{Pattern: Fingers(false, true, false, false, true), Label: LabelRockOn},
		{Pattern: Fingers(true, true, true, true, true), Label: LabelOpenPalm},
		{Pattern: Fingers(false, false, false, false, false), Label: LabelFist},
		{Pattern: Fingers(false, true, false, false, false), Label: LabelPointing},
		{Pattern: Fingers(false, true, true, false, false), Label: LabelPeace},
		{Pattern: Fingers(true, true, false, false, false), Label: LabelGun},
	}
}

// PicksUpRules is DefaultRules with the thumb+pinky pose labeled PICKS_UP.
func PicksUpRules() []Rule {
	rules := DefaultRules()
	for i := range rules {
		if rules[i].Label == LabelHangLoose {
			rules[i].Label = LabelPicksUp
		}
	}
	return rules
}

// RulesFor returns the rule table registered under name.
func RulesFor(name string) ([]Rule, error) {
	switch name {
	case "", RulesetDefault:
		return DefaultRules(), nil
	case RulesetPicksUp:
		return PicksUpRules(), nil
	default:
		return nil, fmt.Errorf("%w: unknown ruleset %q", ErrInvalidConfig, name)
	}
}

// NewMatcher creates a Matcher evaluating rules in the given order.
func NewMatcher(rules []Rule) (*Matcher, error) {
	for i, r := range rules {
		if r.MaxPinch < 0 {
			return nil, fmt.Errorf("%w: rule %d (%s) has negative pinch bound", ErrInvalidConfig, i, r.Label)
		}
		if r.Label == "" || r.Label == LabelNone {
			return nil, fmt.Errorf("%w: rule %d has no label", ErrInvalidConfig, i)
		}
	}

	return &Matcher{
		rules: append([]Rule(nil), rules...),
	}, nil
}

// Rules returns a copy of the rule table in evaluation order.
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// Match returns the label for fs, ignoring rules that need a pinch distance.
func (m *Matcher) Match(fs FingerState) Label {
	return m.match(fs, 0, false)
}

// MatchPinch returns the label for fs given the current thumb-index distance.
func (m *Matcher) MatchPinch(fs FingerState, pinch float64) Label {
	return m.match(fs, pinch, true)
}

func (m *Matcher) match(fs FingerState, pinch float64, havePinch bool) Label {
	for _, r := range m.rules {
		if r.Pattern != fs {
			continue
		}
		if r.MaxPinch > 0 && (!havePinch || pinch >= r.MaxPinch) {
			continue
		}
		return r.Label
	}
	return LabelNone
}
