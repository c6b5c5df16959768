package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera serves blank frames of a fixed size. Pair it with a mock
// detector to script hands without a webcam.
type MockCamera struct {
	width, height int
	limit         int

	mu      sync.Mutex
	running bool
	served  int
}

// NewMockCamera returns a camera producing width x height frames. A positive
// limit makes ReadFrame fail with ErrEmptyFrame after that many frames.
func NewMockCamera(width, height, limit int) *MockCamera {
	return &MockCamera{width: width, height: height, limit: limit}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.served = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}
	if c.limit > 0 && c.served >= c.limit {
		return nil, ErrEmptyFrame
	}
	c.served++

	mat := gocv.NewMatWithSize(c.height, c.width, gocv.MatTypeCV8UC3)
	return &mat, nil
}

func (c *MockCamera) FPS() int { return DefaultFPS }

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Served returns how many frames have been read since Open.
func (c *MockCamera) Served() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.served
}
