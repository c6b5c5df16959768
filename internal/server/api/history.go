package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/gesturectl/internal/store"
)

// HistoryHandler serves GET /api/history?limit=N, newest first.
type HistoryHandler struct {
	store *store.Store
}

func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type historyEntryResponse struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	FiredAt string `json:"fired_at"`
}

type historyResponse struct {
	History []historyEntryResponse `json:"history"`
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := store.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.store.History().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	response := historyResponse{
		History: make([]historyEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.History = append(response.History, historyEntryResponse{
			ID:      e.ID,
			Label:   e.Label,
			Action:  e.Action,
			Success: e.Success,
			Error:   e.Error,
			FiredAt: formatTime(e.FiredAt),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
