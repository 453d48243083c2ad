package handlers

import (
	"net/http"

	"github.com/turtacn/DeepBDE-Console/internal/domain/history"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

// HistoryHandler exposes the recently analyzed descriptors.
type HistoryHandler struct {
	list   *history.List
	logger logging.Logger
}

func NewHistoryHandler(list *history.List, log logging.Logger) *HistoryHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HistoryHandler{list: list, logger: log.Named("history")}
}

// HistoryResponse lists entries most recent first.
type HistoryResponse struct {
	Entries []string `json:"entries"`
	Size    int      `json:"size"`
}

// List handles GET /api/v1/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.list.Entries()
	if entries == nil {
		entries = []string{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries, Size: h.list.Size()})
}

// Clear handles DELETE /api/v1/history.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.list.Clear(r.Context()); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Latest returns the most recent entry, or "" when the history is empty.
// It backs the editor protocol endpoint of the server.
func (h *HistoryHandler) Latest() (string, error) {
	entries := h.list.Entries()
	if len(entries) == 0 {
		return "", nil
	}
	return entries[0], nil
}

//Personal.AI order the ending
