package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/actuator"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/gesture"
)

func TestApp_ProcessFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f := newFixture(t, newStore(t), nil)
	f.detector.SetHands([]detector.HandLandmarks{detector.HangLooseLandmarks()})

	frame := gocv.NewMatWithSize(frameH, frameW, gocv.MatTypeCV8UC3)
	defer frame.Close()

	res, err := f.app.ProcessFrame(context.Background(), &frame)
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	f.app.launches.Wait()

	if res.Label != gesture.LabelHangLoose {
		t.Errorf("label = %s, want HANG_LOOSE", res.Label)
	}
	events := f.recorder.Events()
	if len(events) != 1 || events[0].Action != "open-url" {
		t.Errorf("recorded %v, want one open-url launch", events)
	}
}

func TestApp_ProcessFrame_DetectorError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f := newFixture(t, nil, nil)
	boom := errors.New("service crashed")
	f.detector.SetError(boom)

	frame := gocv.NewMatWithSize(frameH, frameW, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if _, err := f.app.ProcessFrame(context.Background(), &frame); !errors.Is(err, boom) {
		t.Errorf("expected detector error, got %v", err)
	}
}

func TestApp_StartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pipeline integration test")
	}

	f := newFixture(t, newStore(t), nil)
	f.detector.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	if err := f.app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := f.app.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if !f.app.Status().Running {
		t.Error("status should report running")
	}

	deadline := time.Now().Add(5 * time.Second)
	for f.detector.Calls() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	f.app.Stop()

	if f.detector.Calls() < 3 {
		t.Fatalf("pipeline processed %d frames, want at least 3", f.detector.Calls())
	}
	if f.app.Camera().IsOpen() {
		t.Error("camera should be closed after Stop")
	}
	if f.app.Status().Running {
		t.Error("status should not report running after Stop")
	}

	var launched bool
	for _, ev := range f.recorder.Events() {
		if ev.Kind == actuator.KindLaunch && ev.Action == "volume-up" {
			launched = true
		}
	}
	if !launched {
		t.Error("expected an open palm to launch volume-up")
	}

	// Stop is idempotent.
	f.app.Stop()
}

func TestApp_StartStop_Disabled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pipeline integration test")
	}

	f := newFixture(t, nil, nil)
	if err := f.app.SetEnabled(false); err != nil {
		t.Fatal(err)
	}

	if err := f.app.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	f.app.Stop()

	if f.detector.Calls() != 0 {
		t.Errorf("disabled pipeline ran the detector %d times", f.detector.Calls())
	}
}
