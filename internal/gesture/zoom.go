package gesture

import (
	"fmt"
	"time"
)

// ZoomDirection is the output of a ZoomDetector update.
type ZoomDirection int

const (
	ZoomNone ZoomDirection = iota
	ZoomIn
	ZoomOut
)

func (z ZoomDirection) String() string {
	switch z {
	case ZoomIn:
		return "zoom-in"
	case ZoomOut:
		return "zoom-out"
	default:
		return "none"
	}
}

// zoomClass is the cooldown class shared by both zoom directions.
const zoomClass = "zoom"

// ZoomConfig configures a ZoomDetector.
type ZoomConfig struct {
	// InThreshold is the distance (pixels) below which a zoom-in fires.
	InThreshold float64
	// OutThreshold is the distance (pixels) above which a zoom-out fires.
	OutThreshold float64
	// Cooldown applies to both directions together.
	Cooldown time.Duration
}

// DefaultZoomConfig returns the thresholds tuned for a 640x480 webcam frame.
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		InThreshold:  40,
		OutThreshold: 150,
		Cooldown:     time.Second,
	}
}

// Validate checks the zoom thresholds.
func (c ZoomConfig) Validate() error {
	if c.InThreshold <= 0 || c.InThreshold >= c.OutThreshold {
		return fmt.Errorf("%w: zoom-in threshold %.1f must be positive and below zoom-out threshold %.1f",
			ErrInvalidConfig, c.InThreshold, c.OutThreshold)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: zoom cooldown %s is negative", ErrInvalidConfig, c.Cooldown)
	}
	return nil
}

// ZoomDetector fires zoom steps while the thumb and index are held very close
// together or spread wide apart.
type ZoomDetector struct {
	config  ZoomConfig
	tracker *CooldownTracker
}

// NewZoomDetector creates a detector using tracker for its cooldown. A nil
// tracker gets a private one.
func NewZoomDetector(config ZoomConfig, tracker *CooldownTracker) (*ZoomDetector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if tracker == nil {
		tracker = NewCooldownTracker()
	}
	return &ZoomDetector{config: config, tracker: tracker}, nil
}

// Update feeds one distance sample taken at now.
func (z *ZoomDetector) Update(d float64, now time.Time) ZoomDirection {
	dir := ZoomNone
	switch {
	case d < z.config.InThreshold:
		dir = ZoomIn
	case d > z.config.OutThreshold:
		dir = ZoomOut
	}
	if dir == ZoomNone || !z.tracker.ShouldFire(zoomClass, now, z.config.Cooldown) {
		return ZoomNone
	}
	return dir
}
