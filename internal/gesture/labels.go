package gesture

// Label identifies a recognized static hand pose.
type Label string

const (
	LabelNone      Label = "NONE"
	LabelFist      Label = "FIST"
	LabelOpenPalm  Label = "OPEN_PALM"
	LabelHangLoose Label = "HANG_LOOSE"
	LabelRockOn    Label = "ROCK_ON"
	LabelPointing  Label = "POINTING"
	LabelPeace     Label = "PEACE"
	LabelGun       Label = "GUN"
	LabelPicksUp   Label = "PICKS_UP"
)

// Labels lists every known label.
var Labels = []Label{
	LabelNone,
	LabelFist,
	LabelOpenPalm,
	LabelHangLoose,
	LabelRockOn,
	LabelPointing,
	LabelPeace,
	LabelGun,
	LabelPicksUp,
}

// ParseLabel returns the label named s and whether it is known.
func ParseLabel(s string) (Label, bool) {
	for _, l := range Labels {
		if string(l) == s {
			return l, true
		}
	}
	return LabelNone, false
}
