package gesture

import (
	"errors"
	"testing"
)

func newDefaultMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(DefaultRules())
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}
	return m
}

func TestMatcher_DefaultRules(t *testing.T) {
	m := newDefaultMatcher(t)

	tests := []struct {
		fingers FingerState
		want    Label
	}{
		{FingerState{0, 0, 0, 0, 0}, LabelFist},
		{FingerState{1, 1, 1, 1, 1}, LabelOpenPalm},
		{FingerState{1, 0, 0, 0, 1}, LabelHangLoose},
		{FingerState{0, 1, 0, 0, 1}, LabelRockOn},
		{FingerState{0, 1, 0, 0, 0}, LabelPointing},
		{FingerState{0, 1, 1, 0, 0}, LabelPeace},
		{FingerState{1, 1, 0, 0, 0}, LabelGun},
		{FingerState{0, 1, 1, 1, 0}, LabelNone},
		{FingerState{1, 0, 0, 0, 0}, LabelNone},
	}

	for _, tt := range tests {
		t.Run(tt.fingers.String(), func(t *testing.T) {
			if got := m.Match(tt.fingers); got != tt.want {
				t.Errorf("Match(%s) = %s, want %s", tt.fingers, got, tt.want)
			}
		})
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	m := newDefaultMatcher(t)

	for v := 0; v < 1<<NumFingers; v++ {
		var fs FingerState
		for i := 0; i < NumFingers; i++ {
			fs[i] = uint8(v >> i & 1)
		}

		first := m.Match(fs)
		for i := 0; i < 5; i++ {
			if got := m.Match(fs); got != first {
				t.Fatalf("Match(%s) changed from %s to %s", fs, first, got)
			}
		}
	}
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	palm := Fingers(true, true, true, true, true)
	m, err := NewMatcher([]Rule{
		{Pattern: palm, Label: LabelPicksUp},
		{Pattern: palm, Label: LabelOpenPalm},
	})
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	if got := m.Match(palm); got != LabelPicksUp {
		t.Errorf("expected earlier rule to win, got %s", got)
	}
}

func TestMatcher_PinchBoundRules(t *testing.T) {
	fist := Fingers(false, false, false, false, false)
	m, err := NewMatcher([]Rule{
		{Pattern: fist, Label: LabelPicksUp, MaxPinch: 30},
		{Pattern: fist, Label: LabelFist},
	})
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	t.Run("without pinch distance the bounded rule is skipped", func(t *testing.T) {
		if got := m.Match(fist); got != LabelFist {
			t.Errorf("expected FIST, got %s", got)
		}
	})

	t.Run("close pinch matches bounded rule", func(t *testing.T) {
		if got := m.MatchPinch(fist, 10); got != LabelPicksUp {
			t.Errorf("expected PICKS_UP, got %s", got)
		}
	})

	t.Run("bound is exclusive", func(t *testing.T) {
		if got := m.MatchPinch(fist, 30); got != LabelFist {
			t.Errorf("expected FIST, got %s", got)
		}
	})
}

func TestPicksUpRules(t *testing.T) {
	m, err := NewMatcher(PicksUpRules())
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	if got := m.Match(Fingers(true, false, false, false, true)); got != LabelPicksUp {
		t.Errorf("expected PICKS_UP, got %s", got)
	}
	if got := m.Match(Fingers(false, true, false, false, true)); got != LabelRockOn {
		t.Errorf("expected ROCK_ON, got %s", got)
	}
}

func TestRulesFor(t *testing.T) {
	if _, err := RulesFor(RulesetDefault); err != nil {
		t.Errorf("default ruleset error = %v", err)
	}
	if _, err := RulesFor(RulesetPicksUp); err != nil {
		t.Errorf("picks-up ruleset error = %v", err)
	}
	if _, err := RulesFor("sign-language"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewMatcher_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"negative pinch bound", Rule{Label: LabelFist, MaxPinch: -1}},
		{"missing label", Rule{}},
		{"none label", Rule{Label: LabelNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMatcher([]Rule{tt.rule}); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMatcher_RulesIsCopy(t *testing.T) {
	m := newDefaultMatcher(t)
	rules := m.Rules()
	rules[0].Label = LabelGun

	if m.Rules()[0].Label != LabelHangLoose {
		t.Error("mutating Rules() result should not affect the matcher")
	}
}

func TestParseLabel(t *testing.T) {
	if l, ok := ParseLabel("PEACE"); !ok || l != LabelPeace {
		t.Errorf("ParseLabel(PEACE) = %s, %v", l, ok)
	}
	if _, ok := ParseLabel("WAVE"); ok {
		t.Error("ParseLabel(WAVE) should not be known")
	}
}
