package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/session"
	"github.com/ayusman/gesturectl/internal/store"
)

// Reloader applies stored bindings to the running session.
type Reloader interface {
	LoadBindings() error
}

// BindingHandler handles HTTP requests for gesture bindings.
type BindingHandler struct {
	store    *store.Store
	reloader Reloader
	log      *zap.Logger
}

// NewBindingHandler creates a BindingHandler. After every successful
// mutation the reloader, if any, is asked to pick up the change.
func NewBindingHandler(s *store.Store, reloader Reloader, log *zap.Logger) *BindingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BindingHandler{store: s, reloader: reloader, log: log}
}

// ServeHTTP routes /api/bindings and /api/bindings/{id}.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createBindingRequest struct {
	Label      string `json:"label"`
	Action     string `json:"action"`
	Class      string `json:"class"`
	CooldownMs int64  `json:"cooldown_ms"`
	Enabled    *bool  `json:"enabled"`
}

// updateBindingRequest fields are optional; nil leaves the value unchanged.
type updateBindingRequest struct {
	Label      *string `json:"label"`
	Action     *string `json:"action"`
	Class      *string `json:"class"`
	CooldownMs *int64  `json:"cooldown_ms"`
	Enabled    *bool   `json:"enabled"`
}

type bindingResponse struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Action     string `json:"action"`
	Class      string `json:"class"`
	CooldownMs int64  `json:"cooldown_ms"`
	Enabled    bool   `json:"enabled"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:         b.ID,
		Label:      b.Label,
		Action:     b.Action,
		Class:      b.Class,
		CooldownMs: b.Cooldown.Milliseconds(),
		Enabled:    b.Enabled,
		CreatedAt:  formatTime(b.CreatedAt),
		UpdatedAt:  formatTime(b.UpdatedAt),
	}
}

// validateBinding applies the session's binding rules to a stored binding.
func validateBinding(b *store.Binding) error {
	return session.Binding{
		Label:    gesture.Label(b.Label),
		Action:   b.Action,
		Class:    b.Class,
		Cooldown: b.Cooldown,
	}.Validate()
}

func (h *BindingHandler) reload() {
	if h.reloader == nil {
		return
	}
	if err := h.reloader.LoadBindings(); err != nil {
		h.log.Error("reload bindings failed", zap.Error(err))
	}
}

// list handles GET /api/bindings.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{id}.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// create handles POST /api/bindings. The class defaults to the lowercased
// label, giving the binding a timer of its own.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	b := &store.Binding{
		Label:    strings.ToUpper(req.Label),
		Action:   req.Action,
		Class:    req.Class,
		Cooldown: time.Duration(req.CooldownMs) * time.Millisecond,
		Enabled:  true,
	}
	if b.Class == "" {
		b.Class = strings.ToLower(b.Label)
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}

	if err := validateBinding(b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Bindings().Create(b); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Label is already bound")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	h.reload()
	writeJSON(w, http.StatusCreated, toBindingResponse(b))
}

// update handles PUT /api/bindings/{id}.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Label != nil {
		b.Label = strings.ToUpper(*req.Label)
	}
	if req.Action != nil {
		b.Action = *req.Action
	}
	if req.Class != nil {
		b.Class = *req.Class
	}
	if req.CooldownMs != nil {
		b.Cooldown = time.Duration(*req.CooldownMs) * time.Millisecond
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}

	if err := validateBinding(b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Bindings().Update(b); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Label is already bound")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	h.reload()
	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// delete handles DELETE /api/bindings/{id}.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Bindings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	h.reload()
	w.WriteHeader(http.StatusNoContent)
}
