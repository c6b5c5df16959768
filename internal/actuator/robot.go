package actuator

import (
	"math"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"
)

// Robot is a Pointer that injects OS input through robotgo.
type Robot struct {
	button string
	log    *zap.Logger
}

// NewRobot creates a Robot that drags with the left mouse button.
func NewRobot(log *zap.Logger) *Robot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Robot{button: "left", log: log}
}

// ScreenSize returns the main display size in pixels.
func (r *Robot) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}

func (r *Robot) MoveCursorTo(x, y float64) error {
	robotgo.Move(int(math.Round(x)), int(math.Round(y)))
	return nil
}

func (r *Robot) PressButton() error {
	r.log.Debug("mouse down", zap.String("button", r.button))
	return robotgo.Toggle(r.button)
}

func (r *Robot) ReleaseButton() error {
	r.log.Debug("mouse up", zap.String("button", r.button))
	return robotgo.Toggle(r.button, "up")
}
