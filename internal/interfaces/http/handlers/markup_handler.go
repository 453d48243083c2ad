package handlers

import (
	"net/http"

	"github.com/turtacn/DeepBDE-Console/internal/domain/markup"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

// MarkupRequest carries untrusted structure markup.
type MarkupRequest struct {
	Markup string `json:"markup"`
}

// MarkupResponse carries the normalized markup.
type MarkupResponse struct {
	Markup string `json:"markup"`
}

// NormalizeMarkup handles POST /api/v1/markup/normalize.  Empty markup
// normalizes to empty markup.
func NormalizeMarkup(log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MarkupRequest
		if err := decodeJSON(r, &req); err != nil {
			writeAppError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, MarkupResponse{Markup: markup.Normalize(req.Markup)})
	}
}

//Personal.AI order the ending
