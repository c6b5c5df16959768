// Package gesture turns hand landmark snapshots into finger states, gesture
// labels and debounced pinch transitions.
package gesture

import (
	"errors"
	"fmt"

	"github.com/ayusman/gesturectl/internal/detector"
)

// ErrIncompleteLandmarks is returned when a snapshot does not carry exactly
// detector.NumLandmarks points.
var ErrIncompleteLandmarks = errors.New("incomplete landmarks")

// Finger positions within a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// FingerState is the up (1) / down (0) vector ordered thumb, index, middle,
// ring, pinky.
type FingerState [NumFingers]uint8

// fingerTips lists the tip landmark of each finger in FingerState order.
var fingerTips = [NumFingers]int{
	detector.ThumbTip,
	detector.IndexTip,
	detector.MiddleTip,
	detector.RingTip,
	detector.PinkyTip,
}

// Fingers builds a FingerState from five flags in thumb..pinky order.
func Fingers(thumb, index, middle, ring, pinky bool) FingerState {
	var fs FingerState
	for i, up := range [NumFingers]bool{thumb, index, middle, ring, pinky} {
		if up {
			fs[i] = 1
		}
	}
	return fs
}

// Up reports whether finger f is extended.
func (fs FingerState) Up(f int) bool {
	return fs[f] == 1
}

// Count returns the number of extended fingers.
func (fs FingerState) Count() int {
	n := 0
	for _, v := range fs {
		n += int(v)
	}
	return n
}

// String renders the vector as five digits, e.g. "10001".
func (fs FingerState) String() string {
	b := make([]byte, NumFingers)
	for i, v := range fs {
		b[i] = '0' + v
	}
	return string(b)
}

// Classify derives the finger-state vector of a snapshot.
//
// The four fingers are up when the tip is higher on screen (smaller y) than
// the PIP joint two landmarks below it. The thumb is up when its tip lies to
// the right of the IP joint. That horizontal test only holds for a right
// hand in a mirrored (selfie) view, or a left hand in an unmirrored one; the
// other combinations report the thumb inverted.
func Classify(s detector.Snapshot) (FingerState, error) {
	var fs FingerState
	if len(s) != detector.NumLandmarks {
		return fs, fmt.Errorf("%w: got %d points, want %d", ErrIncompleteLandmarks, len(s), detector.NumLandmarks)
	}

	if s[detector.ThumbTip].X > s[detector.ThumbIP].X {
		fs[Thumb] = 1
	}

	for f := Index; f < NumFingers; f++ {
		tip := fingerTips[f]
		if s[tip].Y < s[tip-2].Y {
			fs[f] = 1
		}
	}

	return fs, nil
}

// PinchDistance returns the pixel distance between the thumb and index tips.
func PinchDistance(s detector.Snapshot) (float64, error) {
	if len(s) != detector.NumLandmarks {
		return 0, fmt.Errorf("%w: got %d points, want %d", ErrIncompleteLandmarks, len(s), detector.NumLandmarks)
	}
	return s.Distance(detector.ThumbTip, detector.IndexTip), nil
}
