// Command keyboard is a plugin that taps keyboard shortcuts, including the
// browser/editor zoom hotkeys.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/gesturectl/internal/plugin"
)

// KeystrokeParams are the params of a keystroke action.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
}

var modifierMap = map[string]string{
	"command": "cmd",
	"cmd":     "cmd",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	var err error
	switch req.Action {
	case "zoom-in":
		err = tap(KeystrokeParams{Key: "=", Modifiers: []string{zoomModifier()}})
	case "zoom-out":
		err = tap(KeystrokeParams{Key: "-", Modifiers: []string{zoomModifier()}})
	case "keystroke":
		var p KeystrokeParams
		if len(req.Params) > 0 {
			err = json.Unmarshal(req.Params, &p)
		}
		if err == nil {
			err = tap(p)
		}
	default:
		writeResponse(fmt.Errorf("unknown action: %s", req.Action))
		return
	}

	if err != nil {
		writeResponse(fmt.Errorf("action %s failed: %w", req.Action, err))
		return
	}
	writeResponse(nil)
}

func zoomModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

func tap(p KeystrokeParams) error {
	if p.Key == "" {
		return errors.New("key is required")
	}

	args := make([]interface{}, 0, len(p.Modifiers))
	for _, m := range p.Modifiers {
		if mod, ok := modifierMap[strings.ToLower(m)]; ok {
			args = append(args, mod)
		}
	}
	return robotgo.KeyTap(p.Key, args...)
}

func writeResponse(err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
