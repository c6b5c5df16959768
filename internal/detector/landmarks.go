// Package detector provides hand detection interfaces and landmark types.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position as reported by the detector.
// X and Y are normalized to [0,1] by frame width and height; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmark is a single labeled point of a Snapshot in integer frame pixels.
type Landmark struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// Snapshot is one frame's landmarks for a single hand, ordered by landmark ID.
// A present hand has exactly NumLandmarks entries; an absent hand is empty.
type Snapshot []Landmark

// Snapshot projects the normalized landmarks onto a frame of the given size.
// Coordinates are truncated toward zero, matching how pixel positions are
// read off the detector output.
func (h *HandLandmarks) Snapshot(width, height int) Snapshot {
	if h == nil {
		return nil
	}

	s := make(Snapshot, NumLandmarks)
	for i, p := range h.Points {
		s[i] = Landmark{
			ID: i,
			X:  int(p.X * float64(width)),
			Y:  int(p.Y * float64(height)),
		}
	}
	return s
}

// Present reports whether the snapshot holds a hand.
func (s Snapshot) Present() bool {
	return len(s) > 0
}

// Distance returns the Euclidean pixel distance between two landmarks.
// Both IDs must be valid indices into s.
func (s Snapshot) Distance(a, b int) float64 {
	dx := float64(s[a].X - s[b].X)
	dy := float64(s[a].Y - s[b].Y)
	return math.Hypot(dx, dy)
}
