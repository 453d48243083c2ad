package bde

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/domain/history"
	"github.com/turtacn/DeepBDE-Console/internal/domain/markup"
	"github.com/turtacn/DeepBDE-Console/internal/domain/molecule"
	"github.com/turtacn/DeepBDE-Console/internal/domain/viewport"
	"github.com/turtacn/DeepBDE-Console/internal/intelligence/chem_engine"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

const (
	opPredictSingle   = "predict_single"
	opPredictMultiple = "predict_multiple"
	opDownloadReport  = "download_report"
)

// Structure is a canonicalized descriptor ready for display.
type Structure struct {
	Source     string            `json:"source"`
	Canonical  string            `json:"canonical"`
	Identifier string            `json:"identifier"`
	RawMarkup  string            `json:"-"`
	Markup     string            `json:"markup"`
	Bonds      []client.BondInfo `json:"bonds,omitempty"`
	Atoms      int               `json:"atoms"`
	Formula    string            `json:"formula"`
	Viewport   *viewport.State   `json:"viewport"`
}

// WorkbenchOptions configures a Workbench.
type WorkbenchOptions struct {
	InitialZoom   float64
	PreviewWidth  int
	PreviewHeight int
	History       *history.List
	Metrics       *prometheus.AppMetrics
	Logger        logging.Logger
}

// Workbench runs the single-structure flows of a session.  It shares the
// session's Memoizer with the batch analyzer.
type Workbench struct {
	memo   *Memoizer
	svc    PredictionService
	gate   *molecule.Gate
	opts   WorkbenchOptions
	logger logging.Logger
}

// NewWorkbench returns a workbench calling svc through memo.
func NewWorkbench(memo *Memoizer, svc PredictionService, gate *molecule.Gate, opts WorkbenchOptions) *Workbench {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.InitialZoom <= 0 {
		opts.InitialZoom = viewport.DefaultInitialZoom
	}
	return &Workbench{memo: memo, svc: svc, gate: gate, opts: opts, logger: opts.Logger.Named("workbench")}
}

// LoadStructure validates descriptor locally, canonicalizes it and returns
// the sanitized structure with a fresh viewport.
func (w *Workbench) LoadStructure(ctx context.Context, descriptor string) (*Structure, error) {
	descriptor = strings.TrimSpace(descriptor)
	st, err := w.gate.Check(descriptor)
	if err != nil {
		return nil, err
	}

	info, err := w.memo.Canonicalize(ctx, descriptor)
	if err != nil {
		w.logger.Warn("canonicalization failed", logging.String("smiles", descriptor), logging.Err(err))
		return nil, err
	}
	if info == nil || info.MoleculeID == "" {
		return nil, errors.New(errors.ErrCodeEmptyPayload, "no molecule information received").WithDetail(descriptor)
	}

	canonical := info.SMILESCanonical
	if canonical == "" {
		canonical = descriptor
	}
	w.remember(ctx, descriptor)
	return &Structure{
		Source:     descriptor,
		Canonical:  canonical,
		Identifier: info.MoleculeID,
		RawMarkup:  info.ImageSVG,
		Markup:     markup.Normalize(info.ImageSVG),
		Bonds:      info.Bonds,
		Atoms:      len(st.Atoms),
		Formula:    st.Formula(),
		Viewport:   viewport.NewWithZoom(w.opts.InitialZoom),
	}, nil
}

// EvaluateBonds runs a fragment analysis with at least one export payload
// selected.
func (w *Workbench) EvaluateBonds(ctx context.Context, descriptor, identifier string, opts EvaluateOptions) (*AnalysisResult, error) {
	if !opts.ExportSMILES && !opts.ExportXYZ {
		return nil, errors.New(errors.ErrCodeExportSelectionMissing, "select at least one export format")
	}
	if err := requireStructure(descriptor, identifier); err != nil {
		return nil, err
	}
	frag, err := w.memo.EvaluateBonds(ctx, descriptor, identifier, opts)
	if err != nil {
		return nil, err
	}
	if frag == nil {
		return nil, errors.New(errors.ErrCodeEmptyPayload, "no bond predictions received").WithDetail(descriptor)
	}
	info := &client.MoleculeInfo{SMILESCanonical: descriptor, MoleculeID: identifier}
	return NewAnalysisResult(descriptor, info, frag, w.opts.InitialZoom), nil
}

// PredictSingle predicts the energy of bond bondIdx.
func (w *Workbench) PredictSingle(ctx context.Context, descriptor, identifier string, bondIdx int) (*client.PredictionResult, error) {
	if err := requireStructure(descriptor, identifier); err != nil {
		return nil, err
	}
	if bondIdx < 0 {
		return nil, errors.New(errors.ErrCodeBondIndexInvalid, "bond index must be non-negative").WithDetail(strconv.Itoa(bondIdx))
	}
	start := time.Now()
	res, err := w.svc.PredictSingle(ctx, &client.PredictSingleRequest{SMILES: descriptor, MoleculeID: identifier, BondIdx: bondIdx})
	prometheus.RecordRemoteCall(w.opts.Metrics, opPredictSingle, time.Since(start), err)
	return checkPrediction(res, err)
}

// PredictMultiple predicts the energies of the listed bonds.
func (w *Workbench) PredictMultiple(ctx context.Context, descriptor, identifier string, indices []int) (*client.PredictionResult, error) {
	if err := requireStructure(descriptor, identifier); err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, errors.New(errors.ErrCodeBondIndexInvalid, "at least one bond index is required")
	}
	start := time.Now()
	res, err := w.svc.PredictMultiple(ctx, &client.PredictMultipleRequest{SMILES: descriptor, MoleculeID: identifier, BondIndices: indices})
	prometheus.RecordRemoteCall(w.opts.Metrics, opPredictMultiple, time.Since(start), err)
	return checkPrediction(res, err)
}

// Report downloads and decodes the report document of descriptor.
func (w *Workbench) Report(ctx context.Context, descriptor, format string) ([]byte, error) {
	start := time.Now()
	payload, err := w.svc.DownloadReport(ctx, strings.TrimSpace(descriptor), format)
	prometheus.RecordRemoteCall(w.opts.Metrics, opDownloadReport, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New(errors.ErrCodeEmptyPayload, "no report received")
	}
	return reporting.DecodeReport(payload.ReportBase64)
}

// Preview renders descriptor with the local structure engine, bond indices
// labelled, and normalizes the markup.  No remote call is made.
func (w *Workbench) Preview(descriptor string) (string, error) {
	st, err := w.gate.Check(descriptor)
	if err != nil {
		return "", err
	}
	raw := chem_engine.Render(st, chem_engine.RenderOptions{
		Width:      w.opts.PreviewWidth,
		Height:     w.opts.PreviewHeight,
		BondLabels: true,
	})
	return markup.Normalize(raw), nil
}

func (w *Workbench) remember(ctx context.Context, descriptor string) {
	if w.opts.History == nil {
		return
	}
	if err := w.opts.History.Add(ctx, descriptor); err != nil {
		w.logger.Warn("history update failed", logging.Err(err))
	}
}

// ParseBondIndices reads a comma-separated list of bond indices.  Entries
// that are not non-negative integers are dropped; an input with no usable
// entry is an error.
func ParseBondIndices(input string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(input, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeBondIndexInvalid, "no valid bond index").WithDetail(input)
	}
	return out, nil
}

func requireStructure(descriptor, identifier string) error {
	if strings.TrimSpace(descriptor) == "" {
		return errors.New(errors.ErrCodeValidation, "smiles is required")
	}
	if strings.TrimSpace(identifier) == "" {
		return errors.New(errors.ErrCodeValidation, "load the structure first: molecule id is missing")
	}
	return nil
}

func checkPrediction(res *client.PredictionResult, err error) (*client.PredictionResult, error) {
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New(errors.ErrCodeEmptyPayload, "no bond predictions received")
	}
	return res, nil
}

//Personal.AI order the ending
