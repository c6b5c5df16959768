// Command launcher is a plugin that opens URLs in the default browser and
// starts desktop applications.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/ayusman/gesturectl/internal/plugin"
)

// DefaultURL is opened by open-url when the request carries no url param.
const DefaultURL = "https://my.utep.edu"

type urlParams struct {
	URL string `json:"url"`
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	var err error
	switch req.Action {
	case "open-url":
		p := urlParams{URL: DefaultURL}
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				writeResponse(fmt.Errorf("parse params: %w", err))
				return
			}
		}
		err = openURL(p.URL)
	case "open-spotify":
		err = openSpotify()
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

func openURL(url string) error {
	switch runtime.GOOS {
	case "windows":
		return start("cmd", "/c", "start", "", url)
	case "darwin":
		return start("open", url)
	default:
		return start("xdg-open", url)
	}
}

func openSpotify() error {
	switch runtime.GOOS {
	case "windows":
		return start("cmd", "/c", "start", "spotify:")
	case "darwin":
		return start("open", "-a", "Spotify")
	default:
		return start("xdg-open", "spotify:")
	}
}

// start launches a detached process without waiting for it to exit.
func start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func writeResponse(err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
