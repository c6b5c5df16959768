package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PoseLandmarks builds a right hand, seen in a mirrored view, with each
// finger either extended or folded. Extended fingers put the tip above the
// PIP joint; an extended thumb puts the tip to the right of the IP joint.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.64, Y: 0.66, Z: 0.03}
	if thumb {
		h.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.62, Z: 0.03}
	} else {
		h.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.66, Z: -0.02}
	}

	setFinger(&h, IndexMCP, 0.55, index)
	setFinger(&h, MiddleMCP, 0.50, middle)
	setFinger(&h, RingMCP, 0.45, ring)
	setFinger(&h, PinkyMCP, 0.40, pinky)

	return h
}

// setFinger fills the four landmarks of a finger starting at its MCP index.
func setFinger(h *HandLandmarks, mcp int, x float64, extended bool) {
	h.Points[mcp] = Point3D{X: x, Y: 0.68}
	if extended {
		h.Points[mcp+1] = Point3D{X: x, Y: 0.55}
		h.Points[mcp+2] = Point3D{X: x, Y: 0.45}
		h.Points[mcp+3] = Point3D{X: x, Y: 0.35}
		return
	}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.62, Z: -0.05}
	h.Points[mcp+2] = Point3D{X: x - 0.01, Y: 0.66, Z: -0.04}
	h.Points[mcp+3] = Point3D{X: x - 0.02, Y: 0.70, Z: -0.02}
}

// FistLandmarks returns a hand with every finger folded.
func FistLandmarks() HandLandmarks { return PoseLandmarks(false, false, false, false, false) }

// OpenPalmLandmarks returns a hand with every finger extended.
func OpenPalmLandmarks() HandLandmarks { return PoseLandmarks(true, true, true, true, true) }

// HangLooseLandmarks returns a hand with thumb and pinky extended.
func HangLooseLandmarks() HandLandmarks { return PoseLandmarks(true, false, false, false, true) }

// RockOnLandmarks returns a hand with index and pinky extended.
func RockOnLandmarks() HandLandmarks { return PoseLandmarks(false, true, false, false, true) }

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks { return PoseLandmarks(false, true, false, false, false) }

// PeaceLandmarks returns a hand with index and middle fingers extended.
func PeaceLandmarks() HandLandmarks { return PoseLandmarks(false, true, true, false, false) }

// GunLandmarks returns a hand with thumb and index finger extended.
func GunLandmarks() HandLandmarks { return PoseLandmarks(true, true, false, false, false) }
