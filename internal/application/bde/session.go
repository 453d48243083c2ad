package bde

import (
	"context"

	"github.com/turtacn/DeepBDE-Console/internal/domain/history"
	"github.com/turtacn/DeepBDE-Console/internal/domain/molecule"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/prometheus"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	Evaluate      EvaluateOptions
	InitialZoom   float64
	PreviewWidth  int
	PreviewHeight int
	Progress      Progress
	History       *history.List
	Metrics       *prometheus.AppMetrics
	Logger        logging.Logger
}

// Session owns the per-user state: one memoizer shared by the batch analyzer
// and the workbench, and the recent-descriptor history.
type Session struct {
	Gate      *molecule.Gate
	Memo      *Memoizer
	Analyzer  *Analyzer
	Workbench *Workbench
	History   *history.List
}

// NewSession wires a session around svc and gate.  A nil History gets an
// in-memory list of the default size.
func NewSession(svc PredictionService, gate *molecule.Gate, opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.History == nil {
		opts.History = history.NewList(history.DefaultSize, history.NewMemoryStore())
	}
	memo := NewMemoizer(svc, opts.Logger, opts.Metrics)
	return &Session{
		Gate: gate,
		Memo: memo,
		Analyzer: NewAnalyzer(memo, AnalyzerOptions{
			Evaluate:    opts.Evaluate,
			InitialZoom: opts.InitialZoom,
			Progress:    opts.Progress,
			History:     opts.History,
			Metrics:     opts.Metrics,
			Logger:      opts.Logger,
		}),
		Workbench: NewWorkbench(memo, svc, gate, WorkbenchOptions{
			InitialZoom:   opts.InitialZoom,
			PreviewWidth:  opts.PreviewWidth,
			PreviewHeight: opts.PreviewHeight,
			History:       opts.History,
			Metrics:       opts.Metrics,
			Logger:        opts.Logger,
		}),
		History: opts.History,
	}
}

// Restore reloads the persisted history.
func (s *Session) Restore(ctx context.Context) error {
	return s.History.Restore(ctx)
}

// Items classifies descriptors through the session gate.
func (s *Session) Items(descriptors ...string) []Item {
	items := make([]Item, 0, len(descriptors))
	for _, d := range descriptors {
		items = append(items, NewItem(s.Gate, d))
	}
	return items
}

// Close drops the memoized responses and the last batch report.
func (s *Session) Close() {
	s.Memo.Invalidate()
	s.Analyzer.Reset()
}

//Personal.AI order the ending
