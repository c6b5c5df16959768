// Package plugin discovers and runs the external executables that carry out
// launch actions such as volume steps, zoom hotkeys and URL launches.
package plugin

import "encoding/json"

// ManifestFile is the name of the manifest each plugin directory contains.
const ManifestFile = "plugin.json"

// Manifest describes a plugin and the action names it handles.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Handles reports whether the manifest lists action.
func (m Manifest) Handles(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Request is written as JSON to the plugin's stdin.
type Request struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is read as JSON from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its resolved locations.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
