package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/session"
)

// isolate points HOME at a temp dir and returns a path to a missing .env.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return filepath.Join(home, "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	missing := isolate(t)

	c, err := Load(missing)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if c.Paths.DataDir != filepath.Join(home, ".gesturectl") {
		t.Errorf("DataDir = %q", c.Paths.DataDir)
	}
	if c.Paths.PluginDir != filepath.Join(c.Paths.DataDir, "plugins") {
		t.Errorf("PluginDir = %q", c.Paths.PluginDir)
	}
	if c.Pinch.Threshold != 55 || c.Pinch.ReleaseThreshold != 80 {
		t.Errorf("pinch thresholds = %g/%g", c.Pinch.Threshold, c.Pinch.ReleaseThreshold)
	}
	if c.Gestures.VolumeCooldown != 100*time.Millisecond {
		t.Errorf("volume cooldown = %s", c.Gestures.VolumeCooldown)
	}
	if c.Cursor.BufferSize != 7 || c.Cursor.Weight != 0.25 || c.Cursor.EdgeMargin != 0.15 {
		t.Errorf("cursor = %+v", c.Cursor)
	}
	if !c.Gestures.EnableGestures || c.Gestures.EnableCursor || c.Gestures.EnableDrag || c.Gestures.EnableZoom {
		t.Errorf("feature toggles = %+v", c.Gestures)
	}
	if c.Detector.MinConfidence != 0.8 {
		t.Errorf("detection confidence = %g", c.Detector.MinConfidence)
	}
	if c.Detector.ModelComplexity != 1 {
		t.Errorf("model complexity = %d, want 1", c.Detector.ModelComplexity)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	missing := isolate(t)

	t.Setenv("GESTURECTL_DATA_DIR", "/tmp/gc")
	t.Setenv("GESTURECTL_PINCH_THRESHOLD", "40")
	t.Setenv("GESTURECTL_RELEASE_THRESHOLD", "70")
	t.Setenv("GESTURECTL_COOLDOWN_HANG", "2s")
	t.Setenv("GESTURECTL_COOLDOWN_VOLUME", "0.25")
	t.Setenv("GESTURECTL_ENABLE_CURSOR", "true")
	t.Setenv("GESTURECTL_RULESET", "picks-up")
	t.Setenv("GESTURECTL_ADDR", "127.0.0.1:9000")
	t.Setenv("GESTURECTL_MODEL_COMPLEXITY", "0")

	c, err := Load(missing)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Paths.DBPath != filepath.Join("/tmp/gc", "gesturectl.db") {
		t.Errorf("DBPath = %q", c.Paths.DBPath)
	}
	if c.Pinch.Threshold != 40 || c.Pinch.ReleaseThreshold != 70 {
		t.Errorf("pinch thresholds = %g/%g", c.Pinch.Threshold, c.Pinch.ReleaseThreshold)
	}
	if c.Gestures.HangCooldown != 2*time.Second {
		t.Errorf("hang cooldown = %s", c.Gestures.HangCooldown)
	}
	if c.Gestures.VolumeCooldown != 250*time.Millisecond {
		t.Errorf("plain seconds should parse, got %s", c.Gestures.VolumeCooldown)
	}
	if !c.Gestures.EnableCursor {
		t.Error("cursor should be enabled")
	}
	if c.Gestures.Ruleset != gesture.RulesetPicksUp {
		t.Errorf("ruleset = %q", c.Gestures.Ruleset)
	}
	if c.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
	if c.Detector.ModelComplexity != 0 {
		t.Errorf("model complexity = %d, want 0", c.Detector.ModelComplexity)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "GESTURECTL_SMOOTH_BUFFER=5\nGESTURECTL_SMOOTH_WEIGHT=0.3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("GESTURECTL_SMOOTH_BUFFER")
		os.Unsetenv("GESTURECTL_SMOOTH_WEIGHT")
	})

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Cursor.BufferSize != 5 || c.Cursor.Weight != 0.3 {
		t.Errorf("cursor = %+v", c.Cursor)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unparsable int", map[string]string{"GESTURECTL_SMOOTH_BUFFER": "seven"}},
		{"unparsable bool", map[string]string{"GESTURECTL_ENABLE_DRAG": "sometimes"}},
		{"unparsable duration", map[string]string{"GESTURECTL_COOLDOWN_ZOOM": "soon"}},
		{"pinch above release", map[string]string{"GESTURECTL_PINCH_THRESHOLD": "90"}},
		{"zoom inverted", map[string]string{"GESTURECTL_ZOOM_IN_THRESHOLD": "200"}},
		{"weight above one", map[string]string{"GESTURECTL_SMOOTH_WEIGHT": "1.5"}},
		{"empty buffer", map[string]string{"GESTURECTL_SMOOTH_BUFFER": "0"}},
		{"margin too wide", map[string]string{"GESTURECTL_EDGE_MARGIN": "0.6"}},
		{"negative cooldown", map[string]string{"GESTURECTL_COOLDOWN_ROCK": "-1s"}},
		{"drag and zoom", map[string]string{"GESTURECTL_ENABLE_DRAG": "true", "GESTURECTL_ENABLE_ZOOM": "true"}},
		{"unknown ruleset", map[string]string{"GESTURECTL_RULESET": "asl"}},
		{"model complexity", map[string]string{"GESTURECTL_MODEL_COMPLEXITY": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := Load(missing); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfig_Bindings(t *testing.T) {
	c := Default(t.TempDir())
	c.Gestures.HangCooldown = 3 * time.Second
	c.Gestures.VolumeCooldown = 50 * time.Millisecond

	for _, b := range c.Bindings() {
		switch b.Class {
		case session.ClassHang:
			if b.Cooldown != 3*time.Second {
				t.Errorf("%s cooldown = %s, want 3s", b.Label, b.Cooldown)
			}
		case session.ClassVolume:
			if b.Cooldown != 50*time.Millisecond {
				t.Errorf("%s cooldown = %s, want 50ms", b.Label, b.Cooldown)
			}
		}
	}
}

func TestConfig_SessionIsValid(t *testing.T) {
	c := Default(t.TempDir())
	c.Gestures.EnableCursor = true
	c.Gestures.EnableDrag = true

	if _, err := session.New(c.Session(1920, 1080), nil); err != nil {
		t.Fatalf("session.New() rejected the default config: %v", err)
	}
}
