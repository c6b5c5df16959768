// Package config loads gesturectl settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ayusman/gesturectl/internal/cursor"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/session"
)

// ErrInvalidConfig is returned for unparsable or out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Prefix is prepended to every environment variable name.
const Prefix = "GESTURECTL_"

type Config struct {
	Camera   CameraConfig
	Detector DetectorConfig
	Gestures GestureConfig
	Pinch    PinchConfig
	Zoom     ZoomConfig
	Cursor   CursorConfig
	Server   ServerConfig
	Paths    PathConfig
	Log      LogConfig
}

type CameraConfig struct {
	Device int
	// FPS is the tick rate of the capture loop.
	FPS int
	// Mirror flips frames horizontally so the view matches a mirror.
	Mirror bool
}

type DetectorConfig struct {
	MaxHands              int
	MinConfidence         float64
	MinTrackingConfidence float64
	// ModelComplexity selects the landmark model, 0 lite or 1 full.
	ModelComplexity int
	ScriptPath      string
}

type GestureConfig struct {
	Ruleset           string
	EnableGestures    bool
	EnableCursor      bool
	EnableDrag        bool
	EnableZoom        bool
	ReleaseOnHandLoss bool

	// The binding cooldowns only seed the store on first run. Afterwards
	// the stored bindings win and a mismatch is logged at startup.
	HangCooldown   time.Duration
	RockCooldown   time.Duration
	VolumeCooldown time.Duration
}

type PinchConfig struct {
	Threshold        float64
	ReleaseThreshold float64
	Cooldown         time.Duration
}

type ZoomConfig struct {
	InThreshold  float64
	OutThreshold float64
	Cooldown     time.Duration
}

type CursorConfig struct {
	BufferSize int
	Weight     float64
	EdgeMargin float64
	Deadzone   float64
}

type ServerConfig struct {
	Addr string
}

type PathConfig struct {
	DataDir   string
	PluginDir string
	DBPath    string
	LogFile   string
}

type LogConfig struct {
	Level       string
	Development bool
}

// Default returns the built-in settings, rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Camera: CameraConfig{
			Device: 0,
			FPS:    30,
			Mirror: true,
		},
		Detector: DetectorConfig{
			MaxHands:              2,
			MinConfidence:         0.8,
			MinTrackingConfidence: 0.8,
			ModelComplexity:       1,
		},
		Gestures: GestureConfig{
			Ruleset:        gesture.RulesetDefault,
			EnableGestures: true,
			HangCooldown:   10 * time.Second,
			RockCooldown:   10 * time.Second,
			VolumeCooldown: 100 * time.Millisecond,
		},
		Pinch: PinchConfig{
			Threshold:        55,
			ReleaseThreshold: 80,
			Cooldown:         150 * time.Millisecond,
		},
		Zoom: ZoomConfig{
			InThreshold:  40,
			OutThreshold: 150,
			Cooldown:     time.Second,
		},
		Cursor: CursorConfig{
			BufferSize: 7,
			Weight:     0.25,
			EdgeMargin: 0.15,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Paths: PathConfig{
			DataDir:   dataDir,
			PluginDir: filepath.Join(dataDir, "plugins"),
			DBPath:    filepath.Join(dataDir, "gesturectl.db"),
			LogFile:   filepath.Join(dataDir, "gesturectl.log"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the given .env files (default ".env"; missing files are
// ignored), then overlays GESTURECTL_* environment variables on the
// defaults. The result is validated.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	e := &env{}
	dataDir := e.getString("DATA_DIR", filepath.Join(home, ".gesturectl"))
	c := Default(dataDir)

	c.Camera.Device = e.getInt("CAMERA", c.Camera.Device)
	c.Camera.FPS = e.getInt("FPS", c.Camera.FPS)
	c.Camera.Mirror = e.getBool("MIRROR", c.Camera.Mirror)

	c.Detector.MaxHands = e.getInt("MAX_HANDS", c.Detector.MaxHands)
	c.Detector.MinConfidence = e.getFloat("DETECTION_CONFIDENCE", c.Detector.MinConfidence)
	c.Detector.MinTrackingConfidence = e.getFloat("TRACKING_CONFIDENCE", c.Detector.MinTrackingConfidence)
	c.Detector.ModelComplexity = e.getInt("MODEL_COMPLEXITY", c.Detector.ModelComplexity)
	c.Detector.ScriptPath = e.getString("MEDIAPIPE_SCRIPT", c.Detector.ScriptPath)

	c.Gestures.Ruleset = e.getString("RULESET", c.Gestures.Ruleset)
	c.Gestures.EnableGestures = e.getBool("ENABLE_GESTURES", c.Gestures.EnableGestures)
	c.Gestures.EnableCursor = e.getBool("ENABLE_CURSOR", c.Gestures.EnableCursor)
	c.Gestures.EnableDrag = e.getBool("ENABLE_DRAG", c.Gestures.EnableDrag)
	c.Gestures.EnableZoom = e.getBool("ENABLE_ZOOM", c.Gestures.EnableZoom)
	c.Gestures.ReleaseOnHandLoss = e.getBool("RELEASE_ON_HAND_LOSS", c.Gestures.ReleaseOnHandLoss)
	c.Gestures.HangCooldown = e.getDuration("COOLDOWN_HANG", c.Gestures.HangCooldown)
	c.Gestures.RockCooldown = e.getDuration("COOLDOWN_ROCK", c.Gestures.RockCooldown)
	c.Gestures.VolumeCooldown = e.getDuration("COOLDOWN_VOLUME", c.Gestures.VolumeCooldown)

	c.Pinch.Threshold = e.getFloat("PINCH_THRESHOLD", c.Pinch.Threshold)
	c.Pinch.ReleaseThreshold = e.getFloat("RELEASE_THRESHOLD", c.Pinch.ReleaseThreshold)
	c.Pinch.Cooldown = e.getDuration("COOLDOWN_PINCH", c.Pinch.Cooldown)

	c.Zoom.InThreshold = e.getFloat("ZOOM_IN_THRESHOLD", c.Zoom.InThreshold)
	c.Zoom.OutThreshold = e.getFloat("ZOOM_OUT_THRESHOLD", c.Zoom.OutThreshold)
	c.Zoom.Cooldown = e.getDuration("COOLDOWN_ZOOM", c.Zoom.Cooldown)

	c.Cursor.BufferSize = e.getInt("SMOOTH_BUFFER", c.Cursor.BufferSize)
	c.Cursor.Weight = e.getFloat("SMOOTH_WEIGHT", c.Cursor.Weight)
	c.Cursor.EdgeMargin = e.getFloat("EDGE_MARGIN", c.Cursor.EdgeMargin)
	c.Cursor.Deadzone = e.getFloat("DEADZONE", c.Cursor.Deadzone)

	c.Server.Addr = e.getString("ADDR", c.Server.Addr)

	c.Paths.PluginDir = e.getString("PLUGIN_DIR", c.Paths.PluginDir)
	c.Paths.DBPath = e.getString("DB_PATH", c.Paths.DBPath)
	c.Paths.LogFile = e.getString("LOG_FILE", c.Paths.LogFile)

	c.Log.Level = e.getString("LOG_LEVEL", c.Log.Level)
	c.Log.Development = e.getBool("LOG_DEV", c.Log.Development)

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every range and cross-field constraint.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Camera.FPS > 0, "fps %d must be positive", c.Camera.FPS)
	check(c.Detector.MaxHands >= 1, "max hands %d must be at least 1", c.Detector.MaxHands)
	check(c.Detector.MinConfidence >= 0 && c.Detector.MinConfidence <= 1,
		"detection confidence %g outside [0,1]", c.Detector.MinConfidence)
	check(c.Detector.MinTrackingConfidence >= 0 && c.Detector.MinTrackingConfidence <= 1,
		"tracking confidence %g outside [0,1]", c.Detector.MinTrackingConfidence)
	check(c.Detector.ModelComplexity == 0 || c.Detector.ModelComplexity == 1,
		"model complexity %d must be 0 or 1", c.Detector.ModelComplexity)

	_, err := gesture.RulesFor(c.Gestures.Ruleset)
	check(err == nil, "unknown ruleset %q", c.Gestures.Ruleset)
	check(!(c.Gestures.EnableDrag && c.Gestures.EnableZoom), "drag and zoom cannot both be enabled")
	check(c.Gestures.HangCooldown >= 0 && c.Gestures.RockCooldown >= 0 && c.Gestures.VolumeCooldown >= 0,
		"gesture cooldowns must not be negative")

	check(c.Pinch.Threshold > 0 && c.Pinch.Threshold < c.Pinch.ReleaseThreshold,
		"pinch threshold %g must be positive and below release threshold %g", c.Pinch.Threshold, c.Pinch.ReleaseThreshold)
	check(c.Pinch.Cooldown >= 0, "pinch cooldown must not be negative")

	check(c.Zoom.InThreshold > 0 && c.Zoom.InThreshold < c.Zoom.OutThreshold,
		"zoom-in threshold %g must be positive and below zoom-out threshold %g", c.Zoom.InThreshold, c.Zoom.OutThreshold)
	check(c.Zoom.Cooldown >= 0, "zoom cooldown must not be negative")

	check(c.Cursor.BufferSize >= 1, "smoothing buffer %d must be at least 1", c.Cursor.BufferSize)
	check(c.Cursor.Weight >= 0 && c.Cursor.Weight <= 1, "smoothing weight %g outside [0,1]", c.Cursor.Weight)
	check(c.Cursor.EdgeMargin >= 0 && c.Cursor.EdgeMargin <= 0.5, "edge margin %g outside [0,0.5]", c.Cursor.EdgeMargin)
	check(c.Cursor.Deadzone >= 0, "deadzone %g must not be negative", c.Cursor.Deadzone)

	check(c.Server.Addr != "", "server address is empty")
	check(c.Paths.DataDir != "", "data directory is empty")

	return errors.Join(errs...)
}

// Bindings returns the stock gesture bindings with the configured cooldowns.
func (c *Config) Bindings() []session.Binding {
	bindings := session.DefaultBindings()
	for i := range bindings {
		switch bindings[i].Class {
		case session.ClassHang:
			bindings[i].Cooldown = c.Gestures.HangCooldown
		case session.ClassRock:
			bindings[i].Cooldown = c.Gestures.RockCooldown
		case session.ClassVolume:
			bindings[i].Cooldown = c.Gestures.VolumeCooldown
		}
	}
	return bindings
}

// Session builds the session configuration for a screen of the given size.
func (c *Config) Session(screenWidth, screenHeight int) session.Config {
	return session.Config{
		Ruleset: c.Gestures.Ruleset,
		Pinch: gesture.PinchConfig{
			PinchThreshold:   c.Pinch.Threshold,
			ReleaseThreshold: c.Pinch.ReleaseThreshold,
			Cooldown:         c.Pinch.Cooldown,
		},
		Zoom: gesture.ZoomConfig{
			InThreshold:  c.Zoom.InThreshold,
			OutThreshold: c.Zoom.OutThreshold,
			Cooldown:     c.Zoom.Cooldown,
		},
		Cursor: cursor.Config{
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
			EdgeMargin:   c.Cursor.EdgeMargin,
			Deadzone:     c.Cursor.Deadzone,
			Smoothing: cursor.SmootherConfig{
				BufferSize: c.Cursor.BufferSize,
				Weight:     c.Cursor.Weight,
			},
		},
		EnableGestures:    c.Gestures.EnableGestures,
		EnableCursor:      c.Gestures.EnableCursor,
		EnableDrag:        c.Gestures.EnableDrag,
		EnableZoom:        c.Gestures.EnableZoom,
		ReleaseOnHandLoss: c.Gestures.ReleaseOnHandLoss,
		Bindings:          c.Bindings(),
	}
}

// env reads prefixed variables, collecting parse errors instead of
// silently falling back.
type env struct {
	errs []error
}

func (e *env) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(Prefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *env) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, Prefix, key, value, err))
}

func (e *env) getString(key, fallback string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return fallback
}

func (e *env) getInt(key string, fallback int) int {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return n
}

func (e *env) getFloat(key string, fallback float64) float64 {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return f
}

func (e *env) getBool(key string, fallback bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return b
}

// getDuration accepts Go duration strings ("150ms") or plain seconds ("0.15").
func (e *env) getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return fallback
	}
	return time.Duration(secs * float64(time.Second))
}
