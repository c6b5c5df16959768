package cursor

import (
	"fmt"
	"math"
)

// Config configures a Controller.
type Config struct {
	ScreenWidth  int
	ScreenHeight int

	// EdgeMargin is the fraction of the frame, per edge, that is dampened.
	EdgeMargin float64

	// Deadzone is the minimum change, in screen pixels on either axis, of
	// the smoothed position before a new cursor move is reported.
	Deadzone float64

	Smoothing SmootherConfig
}

// Validate checks the screen size, margin, deadzone and smoothing settings.
func (c Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, c.ScreenWidth, c.ScreenHeight)
	}
	if c.EdgeMargin < 0 || c.EdgeMargin > 0.5 {
		return fmt.Errorf("%w: edge margin %g outside [0,0.5]", ErrInvalidConfig, c.EdgeMargin)
	}
	if c.Deadzone < 0 {
		return fmt.Errorf("%w: deadzone %g is negative", ErrInvalidConfig, c.Deadzone)
	}
	return c.Smoothing.Validate()
}

// Controller maps a fingertip pixel position in the camera frame to a
// smoothed screen position.
type Controller struct {
	config   Config
	smoother *Smoother

	last     Point
	reported bool
}

// NewController creates a Controller.
func NewController(config Config) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	smoother, err := NewSmoother(config.Smoothing)
	if err != nil {
		return nil, err
	}
	return &Controller{
		config:   config,
		smoother: smoother,
	}, nil
}

// Update feeds the fingertip at (x, y) in a frame of frameW x frameH pixels.
// It returns the smoothed screen position and whether it moved far enough
// from the last reported position to warrant a cursor move. The first update
// always reports.
func (c *Controller) Update(x, y, frameW, frameH int) (Point, bool) {
	if frameW <= 0 || frameH <= 0 {
		return c.last, false
	}

	nx := EdgeDampen(clamp01(float64(x)/float64(frameW)), c.config.EdgeMargin)
	ny := EdgeDampen(clamp01(float64(y)/float64(frameH)), c.config.EdgeMargin)

	target := Point{
		X: nx * float64(c.config.ScreenWidth),
		Y: ny * float64(c.config.ScreenHeight),
	}

	p := c.smoother.Push(target)
	if c.reported &&
		math.Abs(p.X-c.last.X) <= c.config.Deadzone &&
		math.Abs(p.Y-c.last.Y) <= c.config.Deadzone {
		return p, false
	}

	c.last = p
	c.reported = true
	return p, true
}

// Position returns the last smoothed position, or false before any update.
func (c *Controller) Position() (Point, bool) {
	return c.smoother.Position()
}

// Reset clears the smoothing history.
func (c *Controller) Reset() {
	c.smoother.Reset()
	c.last = Point{}
	c.reported = false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
