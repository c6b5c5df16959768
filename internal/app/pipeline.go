package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/actuator"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/plugin"
	"github.com/ayusman/gesturectl/internal/session"
	"github.com/ayusman/gesturectl/internal/store"
)

// runPipeline reads one frame per camera period until stop is closed.
// Frames are skipped entirely while the app is disabled.
func (a *App) runPipeline(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			a.step(ctx)
		}
	}
}

func (a *App) step(ctx context.Context) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.log.Debug("frame read failed", zap.Error(err))
		return
	}
	defer frame.Close()

	if _, err := a.ProcessFrame(ctx, frame); err != nil {
		a.log.Warn("frame skipped", zap.Error(err))
	}
}

// ProcessFrame detects hands in frame and runs one tick on them.
func (a *App) ProcessFrame(ctx context.Context, frame *gocv.Mat) (session.Result, error) {
	hands, err := a.detector.Detect(frame)
	if err != nil {
		return session.Result{}, fmt.Errorf("detect hands: %w", err)
	}

	w, h := frame.Cols(), frame.Rows()
	snapshots := make([]detector.Snapshot, len(hands))
	for i := range hands {
		snapshots[i] = hands[i].Snapshot(w, h)
	}
	return a.ProcessHands(ctx, snapshots, w, h)
}

// ProcessHands runs one session tick on already projected hands, executes
// the resulting events and notifies listeners. While disabled it returns an
// empty result.
func (a *App) ProcessHands(ctx context.Context, hands []detector.Snapshot, frameW, frameH int) (session.Result, error) {
	now := a.now()

	a.dispatchMu.Lock()
	a.mu.Lock()
	if !a.enabled {
		a.mu.Unlock()
		a.dispatchMu.Unlock()
		return session.Result{Label: gesture.LabelNone}, nil
	}
	res, err := a.session.Tick(now, hands, frameW, frameH)
	if err != nil {
		a.mu.Unlock()
		a.dispatchMu.Unlock()
		return res, err
	}
	a.present = res.Present
	a.lastLabel = res.Label
	listeners := make([]Listener, 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	a.execute(ctx, now, res.Events)
	a.dispatchMu.Unlock()

	update := Update{Time: now, Result: res}
	for _, l := range listeners {
		l(update)
	}
	return res, nil
}

// execute runs pointer events in order on the calling goroutine with
// dispatchMu held. Launches run in the background so a slow plugin never
// stalls the cursor.
func (a *App) execute(ctx context.Context, now time.Time, events []actuator.Event) {
	for _, ev := range events {
		if ev.Kind == actuator.KindLaunch {
			a.launch(ctx, now, ev)
			continue
		}
		if err := actuator.Dispatch(ctx, a.actuator, ev); err != nil {
			a.log.Warn("pointer event failed",
				zap.String("kind", string(ev.Kind)),
				zap.Error(err))
		}
	}
}

func (a *App) launch(ctx context.Context, now time.Time, ev actuator.Event) {
	a.launches.Add(1)
	go func() {
		defer a.launches.Done()

		err := a.actuator.LaunchAction(ctx, ev.Action)
		entry := &store.HistoryEntry{
			Label:   ev.Label,
			Action:  ev.Action,
			Success: err == nil,
			FiredAt: now,
		}

		switch {
		case err == nil:
			a.mu.Lock()
			a.lastAction = ev.Action
			a.mu.Unlock()
			a.log.Info("action launched",
				zap.String("label", ev.Label),
				zap.String("action", ev.Action))
		case errors.Is(err, plugin.ErrPluginNotFound):
			entry.Error = err.Error()
			a.log.Warn("no plugin handles action", zap.String("action", ev.Action))
		default:
			entry.Error = err.Error()
			a.log.Error("action failed",
				zap.String("label", ev.Label),
				zap.String("action", ev.Action),
				zap.Error(err))
		}

		if st := a.config.Store; st != nil {
			if err := st.History().Record(entry); err != nil {
				a.log.Warn("history record failed", zap.Error(err))
			}
		}
	}()
}
