// Package cursor converts a jittery fingertip position into a stable screen
// cursor trajectory.
package cursor

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by constructors given out-of-range settings.
var ErrInvalidConfig = errors.New("invalid cursor configuration")

// Point is a position in screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SmootherConfig configures a Smoother.
type SmootherConfig struct {
	// BufferSize is the number of recent positions averaged together.
	BufferSize int
	// Weight is the exponential smoothing factor applied to each new average.
	// 1 follows the moving average exactly; values near 0 lag heavily.
	Weight float64
}

// DefaultSmootherConfig returns the standard buffer size and weight.
func DefaultSmootherConfig() SmootherConfig {
	return SmootherConfig{
		BufferSize: 7,
		Weight:     0.25,
	}
}

// Validate checks the buffer size and weight.
func (c SmootherConfig) Validate() error {
	if c.BufferSize < 1 {
		return fmt.Errorf("%w: buffer size %d must be at least 1", ErrInvalidConfig, c.BufferSize)
	}
	if c.Weight < 0 || c.Weight > 1 {
		return fmt.Errorf("%w: smoothing weight %g outside [0,1]", ErrInvalidConfig, c.Weight)
	}
	return nil
}

// Smoother filters positions in two stages: a moving average over a fixed
// ring of recent points, then exponential smoothing across updates.
type Smoother struct {
	config SmootherConfig

	ring  []Point
	next  int
	count int

	smoothed Point
	ready    bool
}

// NewSmoother creates an empty Smoother.
func NewSmoother(config SmootherConfig) (*Smoother, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Smoother{
		config: config,
		ring:   make([]Point, config.BufferSize),
	}, nil
}

// Push adds p to the history, evicting the oldest entry once full, and
// returns the updated smoothed position. The first push seeds the smoothed
// position with the moving average directly.
func (s *Smoother) Push(p Point) Point {
	s.ring[s.next] = p
	s.next = (s.next + 1) % len(s.ring)
	if s.count < len(s.ring) {
		s.count++
	}

	avg := s.average()
	if !s.ready {
		s.smoothed = avg
		s.ready = true
		return s.smoothed
	}

	w := s.config.Weight
	s.smoothed = Point{
		X: w*avg.X + (1-w)*s.smoothed.X,
		Y: w*avg.Y + (1-w)*s.smoothed.Y,
	}
	return s.smoothed
}

// Position returns the current smoothed position, or false before the first Push.
func (s *Smoother) Position() (Point, bool) {
	return s.smoothed, s.ready
}

// Len returns the number of positions currently buffered.
func (s *Smoother) Len() int {
	return s.count
}

// Reset empties the history and forgets the smoothed position.
func (s *Smoother) Reset() {
	clear(s.ring)
	s.next = 0
	s.count = 0
	s.smoothed = Point{}
	s.ready = false
}

func (s *Smoother) average() Point {
	var sum Point
	for i := 0; i < s.count; i++ {
		sum.X += s.ring[i].X
		sum.Y += s.ring[i].Y
	}
	n := float64(s.count)
	return Point{X: sum.X / n, Y: sum.Y / n}
}
