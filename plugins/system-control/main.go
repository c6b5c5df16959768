// Command system-control is a plugin that steps the system volume and sends
// media keys. Linux volume goes through PulseAudio's pactl; other platforms
// tap the media keys.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/gesturectl/internal/plugin"
)

// volumeStep is the pactl step used on Linux.
const volumeStep = "5%"

var actionHandlers = map[string]func() error{
	"volume-up":        func() error { return stepVolume("+", "audio_vol_up") },
	"volume-down":      func() error { return stepVolume("-", "audio_vol_down") },
	"volume-mute":      volumeMute,
	"media-play-pause": func() error { return robotgo.KeyTap("audio_play") },
	"media-next":       func() error { return robotgo.KeyTap("audio_next") },
	"media-prev":       func() error { return robotgo.KeyTap("audio_prev") },
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	handler, ok := actionHandlers[req.Action]
	if !ok {
		writeResponse(fmt.Errorf("unknown action: %s", req.Action))
		return
	}
	if err := handler(); err != nil {
		writeResponse(fmt.Errorf("action %s failed: %w", req.Action, err))
		return
	}
	writeResponse(nil)
}

func stepVolume(sign, key string) error {
	if runtime.GOOS == "linux" {
		return run("pactl", "set-sink-volume", "@DEFAULT_SINK@", sign+volumeStep)
	}
	return robotgo.KeyTap(key)
}

func volumeMute() error {
	if runtime.GOOS == "linux" {
		return run("pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle")
	}
	return robotgo.KeyTap("audio_mute")
}

func run(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}

func writeResponse(err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
