package handlers

import (
	"net/http"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

var errNoBatch = errors.New(errors.ErrCodeNotFound, "no batch analysis has run yet")

// BatchHandler runs batch analyses.
type BatchHandler struct {
	analyzer   *bde.Analyzer
	classifier bde.Classifier
	logger     logging.Logger
}

func NewBatchHandler(a *bde.Analyzer, classifier bde.Classifier, log logging.Logger) *BatchHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &BatchHandler{analyzer: a, classifier: classifier, logger: log.Named("batch")}
}

// BatchRequest lists descriptors either as an array or as bulk text with
// one descriptor per line.
type BatchRequest struct {
	Descriptors []string `json:"descriptors" validate:"required_without=Text,max=1000"`
	Text        string   `json:"text" validate:"required_without=Descriptors"`
}

func (req BatchRequest) items(c bde.Classifier) []bde.Item {
	items := bde.ParseItems(c, req.Text)
	for _, d := range req.Descriptors {
		items = append(items, bde.NewItem(c, d))
	}
	return items
}

// Run handles POST /api/v1/batch.  A run with skipped structures answers
// 207 with the warnings in the report.
func (h *BatchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	report, err := h.analyzer.Run(r.Context(), req.items(h.classifier))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	code := http.StatusOK
	if report.PartialFailure {
		code = errors.HTTPStatusForCode(errors.ErrCodePartialFailure)
	}
	writeJSON(w, code, report)
}

// Last handles GET /api/v1/batch/last.
func (h *BatchHandler) Last(w http.ResponseWriter, r *http.Request) {
	report := h.analyzer.Last()
	if report == nil {
		writeAppError(w, h.logger, errNoBatch)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Summary handles GET /api/v1/batch/last/summary with a Markdown rendering
// of the last report.
func (h *BatchHandler) Summary(w http.ResponseWriter, r *http.Request) {
	report := h.analyzer.Last()
	if report == nil {
		writeAppError(w, h.logger, errNoBatch)
		return
	}
	text, err := reporting.RenderSummary(report.Summary())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

//Personal.AI order the ending
