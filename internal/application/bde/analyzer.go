package bde

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/domain/history"
	"github.com/turtacn/DeepBDE-Console/internal/domain/markup"
	"github.com/turtacn/DeepBDE-Console/internal/domain/molecule"
	"github.com/turtacn/DeepBDE-Console/internal/domain/viewport"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

var (
	ErrNoValidItems    = errors.New(errors.ErrCodeNoValidItems, "no valid structures to analyze")
	ErrBatchInProgress = errors.New(errors.ErrCodeBatchInProgress, "a batch analysis is already running")
)

// Batch item outcome labels.
const (
	itemAnalyzed = "analyzed"
	itemWarning  = "warning"
	itemSkipped  = "skipped"
)

// Warning stages.
const (
	StageCanonicalize = "canonicalize"
	StageEvaluate     = "evaluate"
)

// Classifier decides whether a descriptor may be submitted.
type Classifier interface {
	Classify(descriptor string) molecule.Verdict
}

// Item is one entry of a batch.
type Item struct {
	Descriptor string           `json:"descriptor"`
	Validity   molecule.Verdict `json:"validity"`
}

// NewItem trims descriptor and classifies it.
func NewItem(c Classifier, descriptor string) Item {
	descriptor = strings.TrimSpace(descriptor)
	return Item{Descriptor: descriptor, Validity: c.Classify(descriptor)}
}

// Revalidate re-classifies the indeterminate items in place and returns how
// many are still indeterminate.
func Revalidate(c Classifier, items []Item) int {
	pending := 0
	for i := range items {
		if items[i].Validity != molecule.Indeterminate {
			continue
		}
		items[i].Validity = c.Classify(items[i].Descriptor)
		if items[i].Validity == molecule.Indeterminate {
			pending++
		}
	}
	return pending
}

// ParseItems builds items from bulk text: one descriptor per line, the first
// whitespace-separated column of each line.  Blank lines and lines starting
// with '#' are skipped.
func ParseItems(c Classifier, text string) []Item {
	var items []Item
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		items = append(items, NewItem(c, fields[0]))
	}
	return items
}

// Warning records a structure the batch could not analyze.
type Warning struct {
	Descriptor string `json:"descriptor"`
	Stage      string `json:"stage"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

// AnalysisResult is one successfully analyzed structure.  Only Viewport may
// change after creation.
type AnalysisResult struct {
	Source     string                  `json:"source"`
	Canonical  string                  `json:"canonical"`
	Identifier string                  `json:"identifier"`
	RawMarkup  string                  `json:"-"`
	Markup     string                  `json:"markup"`
	Bonds      []client.BondPrediction `json:"bonds"`
	BondTable  string                  `json:"bond_table"`
	Fragments  string                  `json:"fragments,omitempty"`
	XYZ        string                  `json:"xyz,omitempty"`
	Viewport   *viewport.State         `json:"viewport"`
}

// Trusted returns the sanitized markup marked safe for HTML templates.
func (r *AnalysisResult) Trusted() markup.Trusted {
	return markup.Trust(r.Markup)
}

// Bundle returns the exportable artifacts of r.
func (r *AnalysisResult) Bundle() reporting.Bundle {
	return reporting.Bundle{
		Descriptor: r.Source,
		SVG:        r.Markup,
		BondTable:  r.BondTable,
		Fragments:  r.Fragments,
		XYZ:        r.XYZ,
	}
}

// Weakest returns the bond with the lowest predicted energy, or nil.
func (r *AnalysisResult) Weakest() *client.BondPrediction {
	var weakest *client.BondPrediction
	for i := range r.Bonds {
		b := &r.Bonds[i]
		if b.BDE == nil {
			continue
		}
		if weakest == nil || *b.BDE < *weakest.BDE {
			weakest = b
		}
	}
	return weakest
}

// NewAnalysisResult assembles a result from the two service answers.
func NewAnalysisResult(source string, info *client.MoleculeInfo, frag *client.FragmentResult, initialZoom float64) *AnalysisResult {
	raw := frag.ImageSVG
	if raw == "" {
		raw = info.ImageSVG
	}
	canonical := frag.SMILESCanonical
	if canonical == "" {
		canonical = info.SMILESCanonical
	}
	return &AnalysisResult{
		Source:     source,
		Canonical:  canonical,
		Identifier: info.MoleculeID,
		RawMarkup:  raw,
		Markup:     markup.Normalize(raw),
		Bonds:      frag.BDEValues,
		BondTable:  reporting.BondTable(frag.BDEValues),
		Fragments:  reporting.FragmentList(frag.SMILESList),
		XYZ:        frag.XYZBlock,
		Viewport:   viewport.NewWithZoom(initialZoom),
	}
}

// Report is the outcome of one batch run.
type Report struct {
	Submitted      int               `json:"submitted"`
	Results        []*AnalysisResult `json:"results"`
	Warnings       []Warning         `json:"warnings"`
	PartialFailure bool              `json:"partial_failure"`
	Error          string            `json:"error,omitempty"`
	StartedAt      time.Time         `json:"started_at"`
	Duration       time.Duration     `json:"duration"`
}

// Summary converts r into the data of the Markdown batch summary.
func (r *Report) Summary() reporting.Summary {
	s := reporting.Summary{
		GeneratedAt: r.StartedAt,
		Duration:    r.Duration,
		Submitted:   r.Submitted,
		Error:       r.Error,
	}
	for _, res := range r.Results {
		row := reporting.SummaryRow{
			Descriptor: res.Source,
			Canonical:  res.Canonical,
			Identifier: res.Identifier,
			Bonds:      len(res.Bonds),
			Weakest:    reporting.NotAvailable,
			WeakestIdx: -1,
		}
		if w := res.Weakest(); w != nil {
			row.Weakest = reporting.FormatBDE(w.BDE)
			row.WeakestIdx = w.Idx
		}
		s.Rows = append(s.Rows, row)
	}
	for _, w := range r.Warnings {
		s.Warnings = append(s.Warnings, reporting.SummaryWarning{Descriptor: w.Descriptor, Stage: w.Stage, Message: w.Message})
	}
	return s
}

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	Evaluate    EvaluateOptions
	InitialZoom float64
	Progress    Progress
	History     *history.List
	Metrics     *prometheus.AppMetrics
	Logger      logging.Logger
}

// Analyzer runs batches through a Memoizer, one structure at a time.
type Analyzer struct {
	memo    *Memoizer
	opts    AnalyzerOptions
	logger  logging.Logger
	running sync.Mutex

	mu   sync.RWMutex
	last *Report
}

// NewAnalyzer returns an analyzer sharing memo with the rest of the session.
func NewAnalyzer(memo *Memoizer, opts AnalyzerOptions) *Analyzer {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Progress == nil {
		opts.Progress = NopProgress{}
	}
	if opts.InitialZoom <= 0 {
		opts.InitialZoom = viewport.DefaultInitialZoom
	}
	return &Analyzer{memo: memo, opts: opts, logger: opts.Logger.Named("batch")}
}

// Last returns the report of the most recent completed run, or nil while
// none has finished.  The returned report is not modified afterwards.
func (a *Analyzer) Last() *Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Reset discards the previous results.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	a.last = nil
	a.mu.Unlock()
}

// Run analyzes the valid items sequentially.  A failure on one item becomes
// a Warning and the loop moves on; the report is flagged PartialFailure when
// at least one warning was recorded.  Run returns ErrNoValidItems without
// any remote call when no item is valid, and ErrBatchInProgress while
// another Run is active.
func (a *Analyzer) Run(ctx context.Context, items []Item) (*Report, error) {
	if !a.running.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer a.running.Unlock()

	valid := make([]string, 0, len(items))
	for _, it := range items {
		if it.Validity == molecule.Valid {
			valid = append(valid, it.Descriptor)
		} else {
			prometheus.RecordBatchItem(a.opts.Metrics, itemSkipped)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidItems
	}

	a.Reset()
	report := &Report{Submitted: len(valid), StartedAt: time.Now()}

	if m := a.opts.Metrics; m != nil {
		m.BatchRunsInFlight.WithLabelValues().Inc()
		defer m.BatchRunsInFlight.WithLabelValues().Dec()
	}

	a.logger.Info("batch started", logging.Int("submitted", len(items)), logging.Int("valid", len(valid)))
	a.opts.Progress.Start(len(valid))

	var results []*AnalysisResult
	var warnings []Warning
	for i, descriptor := range valid {
		res, warn := a.analyze(ctx, descriptor)
		if warn != nil {
			warnings = append(warnings, *warn)
			prometheus.RecordBatchItem(a.opts.Metrics, itemWarning)
			a.logger.Warn("structure skipped",
				logging.String("smiles", descriptor),
				logging.String("stage", warn.Stage),
				logging.Err(warn.Err))
		} else {
			results = append(results, res)
			prometheus.RecordBatchItem(a.opts.Metrics, itemAnalyzed)
			a.remember(ctx, descriptor)
		}
		a.opts.Progress.Update(i+1, descriptor)
	}
	a.opts.Progress.Finish()

	report.Results = results
	report.Warnings = warnings
	report.Duration = time.Since(report.StartedAt)
	if len(warnings) > 0 {
		report.PartialFailure = true
		report.Error = fmt.Sprintf("%d of %d structures could not be analyzed", len(warnings), len(valid))
	}
	// Published only once complete; readers never see a report being filled.
	a.mu.Lock()
	a.last = report
	a.mu.Unlock()

	prometheus.RecordBatchRun(a.opts.Metrics, report.PartialFailure, report.Duration)
	a.logger.Info("batch finished",
		logging.Int("analyzed", len(results)),
		logging.Int("warnings", len(warnings)),
		logging.Duration("elapsed", report.Duration))
	return report, nil
}

func (a *Analyzer) analyze(ctx context.Context, descriptor string) (*AnalysisResult, *Warning) {
	info, err := a.memo.Canonicalize(ctx, descriptor)
	if err != nil {
		return nil, newWarning(descriptor, StageCanonicalize, err)
	}
	if info == nil || info.MoleculeID == "" {
		return nil, newWarning(descriptor, StageCanonicalize, errors.New(errors.ErrCodeEmptyPayload, "no molecule information received"))
	}

	canonical := info.SMILESCanonical
	if canonical == "" {
		canonical = descriptor
	}
	frag, err := a.memo.EvaluateBonds(ctx, canonical, info.MoleculeID, a.opts.Evaluate)
	if err != nil {
		return nil, newWarning(descriptor, StageEvaluate, err)
	}
	if frag == nil {
		return nil, newWarning(descriptor, StageEvaluate, errors.New(errors.ErrCodeEmptyPayload, "no bond predictions received"))
	}
	return NewAnalysisResult(descriptor, info, frag, a.opts.InitialZoom), nil
}

func (a *Analyzer) remember(ctx context.Context, descriptor string) {
	if a.opts.History == nil {
		return
	}
	if err := a.opts.History.Add(ctx, descriptor); err != nil {
		a.logger.Warn("history update failed", logging.Err(err))
	}
}

func newWarning(descriptor, stage string, err error) *Warning {
	return &Warning{Descriptor: descriptor, Stage: stage, Message: err.Error(), Err: err}
}

//Personal.AI order the ending
