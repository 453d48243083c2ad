package handlers

import (
	"net/http"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/domain/molecule"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

var errNoSink = errors.New(errors.ErrCodeServiceUnavailable, "no export sink is configured")

// StructureHandler serves the single-structure workbench.
type StructureHandler struct {
	workbench  *bde.Workbench
	classifier bde.Classifier
	sink       reporting.Sink
	logger     logging.Logger
}

// NewStructureHandler creates a StructureHandler.  A nil sink disables
// artifact export.
func NewStructureHandler(wb *bde.Workbench, classifier bde.Classifier, sink reporting.Sink, log logging.Logger) *StructureHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &StructureHandler{workbench: wb, classifier: classifier, sink: sink, logger: log.Named("structures")}
}

// ValidateRequest carries descriptors to classify locally.
type ValidateRequest struct {
	Descriptors []string `json:"descriptors" validate:"required,min=1,max=1000"`
}

// ValidateResponse reports the verdict of each descriptor.
type ValidateResponse struct {
	Items []bde.Item `json:"items"`
	Valid int        `json:"valid"`
}

// Validate handles POST /api/v1/validate.  No remote call is made.
func (h *StructureHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	resp := ValidateResponse{Items: make([]bde.Item, 0, len(req.Descriptors))}
	for _, d := range req.Descriptors {
		it := bde.NewItem(h.classifier, d)
		if it.Validity == molecule.Valid {
			resp.Valid++
		}
		resp.Items = append(resp.Items, it)
	}
	writeJSON(w, http.StatusOK, resp)
}

// StructureRequest names one structure.
type StructureRequest struct {
	SMILES string `json:"smiles" validate:"required"`
}

// Load handles POST /api/v1/structures.
func (h *StructureHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req StructureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	st, err := h.workbench.LoadStructure(r.Context(), req.SMILES)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// EvaluateRequest selects the fragment analysis of a loaded structure.
type EvaluateRequest struct {
	SMILES       string `json:"smiles" validate:"required"`
	MoleculeID   string `json:"molecule_id" validate:"required"`
	ExportSMILES bool   `json:"export_smiles"`
	ExportXYZ    bool   `json:"export_xyz"`
	BondIdx      *int   `json:"bond_idx,omitempty" validate:"omitempty,min=0"`
	BondIndices  []int  `json:"bond_indices,omitempty" validate:"omitempty,dive,min=0"`
	// Export stores the derived artifacts in the configured sink.
	Export bool `json:"export"`
}

// EvaluateResponse carries the analysis and any stored artifacts.
type EvaluateResponse struct {
	Result    *bde.AnalysisResult  `json:"result"`
	Artifacts []reporting.Artifact `json:"artifacts,omitempty"`
}

// Evaluate handles POST /api/v1/structures/evaluate.
func (h *StructureHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if req.Export && h.sink == nil {
		writeAppError(w, h.logger, errNoSink)
		return
	}
	res, err := h.workbench.EvaluateBonds(r.Context(), req.SMILES, req.MoleculeID, bde.EvaluateOptions{
		ExportSMILES: req.ExportSMILES,
		ExportXYZ:    req.ExportXYZ,
		BondIdx:      req.BondIdx,
		BondIndices:  req.BondIndices,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	resp := EvaluateResponse{Result: res}
	if req.Export {
		resp.Artifacts, err = reporting.Export(r.Context(), h.sink, res.Bundle())
		if err != nil {
			writeAppError(w, h.logger, err)
			return
		}
		h.logger.Info("artifacts exported", logging.String("smiles", req.SMILES), logging.Int("count", len(resp.Artifacts)))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PredictRequest asks for the energies of specific bonds.
type PredictRequest struct {
	SMILES      string `json:"smiles" validate:"required"`
	MoleculeID  string `json:"molecule_id" validate:"required"`
	BondIndices []int  `json:"bond_indices" validate:"required,min=1"`
}

// Predict handles POST /api/v1/structures/predict.  One index uses the
// single-bond prediction, several the multi-bond one.
func (h *StructureHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	var (
		res *client.PredictionResult
		err error
	)
	if len(req.BondIndices) == 1 {
		res, err = h.workbench.PredictSingle(r.Context(), req.SMILES, req.MoleculeID, req.BondIndices[0])
	} else {
		res, err = h.workbench.PredictMultiple(r.Context(), req.SMILES, req.MoleculeID, req.BondIndices)
	}
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Preview handles POST /api/v1/structures/preview with a locally rendered
// structure image.
func (h *StructureHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req StructureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	svg, err := h.workbench.Preview(req.SMILES)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", reporting.ContentTypeSVG)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}

// ReportRequest asks for the report document of a structure.
type ReportRequest struct {
	SMILES string `json:"smiles" validate:"required"`
	Format string `json:"format" validate:"omitempty,oneof=txt pdf csv"`
}

// Report handles POST /api/v1/structures/report and streams the decoded
// document as an attachment.
func (h *StructureHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if req.Format == "" {
		req.Format = client.ReportFormatTXT
	}
	data, err := h.workbench.Report(r.Context(), req.SMILES, req.Format)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	name := reporting.FileName(reporting.PrefixReport, req.SMILES, req.Format)
	w.Header().Set("Content-Type", reporting.ReportContentType(req.Format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

//Personal.AI order the ending
