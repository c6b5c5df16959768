package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/store"
)

type fakeApp struct {
	status  app.Status
	reloads int
}

func (a *fakeApp) Status() app.Status { return a.status }

func (a *fakeApp) SetEnabled(enabled bool) error {
	a.status.Enabled = enabled
	return nil
}

func (a *fakeApp) LoadBindings() error {
	a.reloads++
	return nil
}

func TestAPI_BindingWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	fake := &fakeApp{}
	ts := httptest.NewServer(New(Config{Store: s, App: fake}))
	defer ts.Close()
	client := ts.Client()

	// 1. Create a binding
	resp, err := client.Post(ts.URL+"/api/bindings", "application/json",
		bytes.NewBufferString(`{"label":"GUN","action":"keystroke","class":"gun","cooldown_ms":500}`))
	if err != nil {
		t.Fatalf("POST /api/bindings error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// 2. List bindings
	resp, _ = client.Get(ts.URL + "/api/bindings")
	var listed struct {
		Bindings []struct {
			ID string `json:"id"`
		} `json:"bindings"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Bindings) != 1 || listed.Bindings[0].ID != created.ID {
		t.Fatalf("listed = %+v, want the created binding", listed)
	}

	// 3. Delete it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/bindings/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	if fake.reloads != 2 {
		t.Errorf("expected a reload per mutation, got %d", fake.reloads)
	}

	// 4. History is served from the same store
	resp, _ = client.Get(ts.URL + "/api/history")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /api/history status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAPI_Status(t *testing.T) {
	fake := &fakeApp{status: app.Status{Enabled: true, LastLabel: gesture.LabelFist}}
	ts := httptest.NewServer(New(Config{App: fake}))
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/status", "application/json", strings.NewReader(`{"enabled":false}`))
	if err != nil {
		t.Fatalf("POST /api/status error = %v", err)
	}
	defer resp.Body.Close()

	var got app.Status
	json.NewDecoder(resp.Body).Decode(&got)
	if got.Enabled || got.LastLabel != gesture.LabelFist {
		t.Errorf("status = %+v", got)
	}
}

func TestAPI_Live(t *testing.T) {
	hub := NewHub(nil)
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.Clients() != 1 {
		t.Fatalf("hub has %d clients, want 1", hub.Clients())
	}

	hub.Publish(map[string]any{"label": "ROCK_ON", "present": true})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var update struct {
		Label   string `json:"label"`
		Present bool   `json:"present"`
	}
	if err := json.Unmarshal(msg, &update); err != nil {
		t.Fatalf("invalid update %s: %v", msg, err)
	}
	if update.Label != "ROCK_ON" || !update.Present {
		t.Errorf("update = %+v", update)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.Clients() != 0 {
		t.Error("hub should forget a closed client")
	}
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Publish(struct{}{})
	hub.Close()
	hub.Publish(struct{}{})
}
