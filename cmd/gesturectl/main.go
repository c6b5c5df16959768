package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/ayusman/gesturectl/internal/actuator"
	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/config"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/logger"
	"github.com/ayusman/gesturectl/internal/plugin"
	"github.com/ayusman/gesturectl/internal/server"
	"github.com/ayusman/gesturectl/internal/session"
	"github.com/ayusman/gesturectl/internal/store"
	"github.com/ayusman/gesturectl/internal/tray"
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file")
	headless := flag.Bool("headless", false, "run without the system tray")
	flag.Parse()

	if err := run(*envFile, *headless); err != nil {
		color.Red("gesturectl: %v", err)
		os.Exit(1)
	}
}

func run(envFile string, headless bool) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Paths.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	log, err := logger.New(logger.Options{
		FilePath:    cfg.Paths.LogFile,
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	printBanner(cfg)

	st, err := store.New(cfg.Paths.DBPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	pluginDir := findPluginDir(cfg.Paths.PluginDir)
	manager := plugin.NewManager(pluginDir, log)
	if err := manager.Discover(); err != nil {
		log.Warn("plugin discovery failed", zap.String("dir", pluginDir), zap.Error(err))
	}
	for _, p := range manager.List() {
		log.Info("plugin loaded",
			zap.String("name", p.Manifest.Name),
			zap.Strings("actions", p.Manifest.Actions))
	}

	robot := actuator.NewRobot(log)
	screenW, screenH := robot.ScreenSize()
	launcher := actuator.NewPluginLauncher(manager, plugin.NewExecutor(plugin.DefaultTimeout, log), log)

	sess, err := session.New(cfg.Session(screenW, screenH), log.Named("session"))
	if err != nil {
		return err
	}

	a, err := app.New(app.Config{
		Camera: capture.NewCamera(capture.Config{
			Device: cfg.Camera.Device,
			FPS:    cfg.Camera.FPS,
			Mirror: cfg.Camera.Mirror,
		}),
		Detector: newDetector(cfg, log),
		Session:  sess,
		Actuator: actuator.Compose(robot, launcher),
		Store:    st,
		Logger:   log.Named("app"),
		Defaults: cfg.Bindings(),
	})
	if err != nil {
		return err
	}
	if err := a.LoadBindings(); err != nil {
		return err
	}

	hub := server.NewHub(log.Named("live"))
	a.Subscribe(func(u app.Update) { hub.Publish(u) })

	var t *tray.Tray
	ctrl := server.Controller(a)
	if !headless {
		t = tray.New(a.IsEnabled())
		ctrl = trayedApp{App: a, tray: t}
		t.OnToggle(func(enabled bool) {
			if err := a.SetEnabled(enabled); err != nil {
				log.Error("toggle failed", zap.Error(err))
			}
		})
		a.Subscribe(func(u app.Update) {
			t.SetLastGesture(string(u.Label))
			t.SetLastAction(a.Status().LastAction)
		})
	}

	srv := server.New(server.Config{Store: st, App: ctrl, Hub: hub, Logger: log.Named("http")})
	go func() {
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Error("http server stopped", zap.Error(err))
		}
	}()

	if err := a.Start(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if t != nil {
		t.OnQuit(stop)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		t.Run()
	} else {
		<-ctx.Done()
	}

	log.Info("shutting down")
	a.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// trayedApp keeps the tray toggle in step with changes made over the API.
type trayedApp struct {
	*app.App
	tray *tray.Tray
}

func (a trayedApp) SetEnabled(enabled bool) error {
	if err := a.App.SetEnabled(enabled); err != nil {
		return err
	}
	a.tray.SetEnabled(enabled)
	return nil
}

// newDetector starts the MediaPipe service, falling back to a detector that
// never sees a hand so the API and tray stay usable.
func newDetector(cfg *config.Config, log *zap.Logger) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MaxHands = cfg.Detector.MaxHands
	dc.MinConfidence = cfg.Detector.MinConfidence
	dc.MinTrackingConf = cfg.Detector.MinTrackingConfidence
	dc.ModelComplexity = cfg.Detector.ModelComplexity
	dc.ScriptPath = cfg.Detector.ScriptPath

	mp, err := detector.NewMediaPipeDetector(dc, log.Named("mediapipe"))
	if err != nil {
		log.Warn("MediaPipe not available, no hands will be detected", zap.Error(err))
		return detector.NewMockDetector()
	}
	log.Info("using MediaPipe hand detection")
	return mp
}

// findPluginDir returns configured if it exists, else the first plugins
// directory found next to the working directory.
func findPluginDir(configured string) string {
	candidates := []string{configured, "plugins", "../plugins", "../../plugins"}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return configured
}

func printBanner(cfg *config.Config) {
	title := color.New(color.FgCyan, color.Bold)
	title.Println("gesturectl - hand gesture control")

	gestures := []struct{ pose, action string }{
		{"hang loose  [1,0,0,0,1]", "open url"},
		{"rock on     [0,1,0,0,1]", "open spotify"},
		{"open palm   [1,1,1,1,1]", "volume up"},
		{"fist        [0,0,0,0,0]", "volume down"},
	}
	for _, g := range gestures {
		fmt.Printf("  %s  %s\n", color.YellowString(g.pose), g.action)
	}

	features := []struct {
		name string
		on   bool
	}{
		{"gestures", cfg.Gestures.EnableGestures},
		{"cursor", cfg.Gestures.EnableCursor},
		{"drag", cfg.Gestures.EnableDrag},
		{"zoom", cfg.Gestures.EnableZoom},
	}
	for _, f := range features {
		state := color.RedString("off")
		if f.on {
			state = color.GreenString("on")
		}
		fmt.Printf("  %-9s %s\n", f.name, state)
	}
	fmt.Printf("  api       http://localhost%s\n", cfg.Server.Addr)
}
