package client

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// Service endpoints.
const (
	pathPredictInfo     = "/api/v1/predict/info/"
	pathFragment        = "/api/v1/fragment/"
	pathPredictSingle   = "/api/v1/predict/single/"
	pathPredictMultiple = "/api/v1/predict/multiple/"
	pathDownloadReport  = "/api/v1/download_report/"
)

// Report formats accepted by DownloadReport.
const (
	ReportFormatTXT = "txt"
	ReportFormatPDF = "pdf"
	ReportFormatCSV = "csv"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// MoleculeInfoRequest asks for the canonical form of a descriptor.
type MoleculeInfoRequest struct {
	SMILES string `json:"smiles"`
}

// BondInfo describes one bond of a canonicalized structure.
type BondInfo struct {
	Idx       int    `json:"idx"`
	Atoms     []int  `json:"atoms,omitempty"`
	BondAtoms string `json:"bond_atoms"`
	BondType  string `json:"bond_type,omitempty"`
	IsRing    bool   `json:"is_in_ring,omitempty"`
}

// MoleculeInfo is the canonicalization result.
type MoleculeInfo struct {
	SMILESCanonical string          `json:"smiles_canonical"`
	MoleculeID      string          `json:"molecule_id"`
	ImageSVG        string          `json:"image_svg"`
	Canvas          json.RawMessage `json:"canvas,omitempty"`
	Bonds           []BondInfo      `json:"bonds,omitempty"`
}

// FragmentRequest asks for bond predictions and optional export payloads.
// BondIdx and BondIndices restrict the analysis; both nil means every bond.
type FragmentRequest struct {
	SMILES       string `json:"smiles"`
	MoleculeID   string `json:"molecule_id"`
	BondIdx      *int   `json:"bond_idx,omitempty"`
	BondIndices  []int  `json:"bond_indices,omitempty"`
	ExportSMILES bool   `json:"export_smiles"`
	ExportXYZ    bool   `json:"export_xyz"`
}

// BondPrediction is the predicted dissociation energy of one bond.  BDE is
// nil when the model produced no value for the bond.
type BondPrediction struct {
	Idx       int      `json:"idx"`
	Atoms     []int    `json:"atoms,omitempty"`
	BondAtoms string   `json:"bond_atoms"`
	BDE       *float64 `json:"bde"`
	BondType  string   `json:"bond_type,omitempty"`
}

// FragmentResult is the bond evaluation result.
type FragmentResult struct {
	SMILESCanonical string           `json:"smiles_canonical"`
	MoleculeID      string           `json:"molecule_id"`
	ImageSVG        string           `json:"image_svg"`
	BDEValues       []BondPrediction `json:"bde_values"`
	SMILESList      []string         `json:"smiles_list,omitempty"`
	XYZBlock        string           `json:"xyz_block,omitempty"`
}

// PredictSingleRequest targets exactly one bond.
type PredictSingleRequest struct {
	SMILES     string `json:"smiles"`
	MoleculeID string `json:"molecule_id"`
	BondIdx    int    `json:"bond_idx"`
}

// PredictMultipleRequest targets a list of bonds.
type PredictMultipleRequest struct {
	SMILES      string `json:"smiles"`
	MoleculeID  string `json:"molecule_id"`
	BondIndices []int  `json:"bond_indices"`
}

// PredictionResult is returned by the single and multiple bond endpoints.
type PredictionResult struct {
	SMILESCanonical string           `json:"smiles_canonical"`
	MoleculeID      string           `json:"molecule_id"`
	BDEValues       []BondPrediction `json:"bde_values"`
}

// DownloadReportRequest selects the report format.
type DownloadReportRequest struct {
	SMILES string `json:"smiles"`
	Format string `json:"format"`
}

// ReportPayload carries a base64-encoded report document.
type ReportPayload struct {
	ReportBase64 string `json:"report_base64"`
}

// ---------------------------------------------------------------------------
// Sub-client
// ---------------------------------------------------------------------------

// PredictionsClient groups the prediction endpoints.
type PredictionsClient struct {
	client *Client
}

func requireSMILES(smiles string) error {
	if strings.TrimSpace(smiles) == "" {
		return errors.New(errors.ErrCodeValidation, "smiles is required")
	}
	return nil
}

// Info canonicalizes smiles and returns its identifier and structure image.
func (p *PredictionsClient) Info(ctx context.Context, smiles string) (*MoleculeInfo, error) {
	if err := requireSMILES(smiles); err != nil {
		return nil, err
	}
	var resp APIResponse[MoleculeInfo]
	if err := p.client.post(ctx, pathPredictInfo, &MoleculeInfoRequest{SMILES: smiles}, &resp); err != nil {
		return nil, err
	}
	return unwrapData(&resp, "info")
}

// Fragment evaluates bond energies for the structure identified by
// req.MoleculeID.
func (p *PredictionsClient) Fragment(ctx context.Context, req *FragmentRequest) (*FragmentResult, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeValidation, "request is required")
	}
	if err := requireSMILES(req.SMILES); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.MoleculeID) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "molecule_id is required")
	}
	var resp APIResponse[FragmentResult]
	if err := p.client.post(ctx, pathFragment, req, &resp); err != nil {
		return nil, err
	}
	return unwrapData(&resp, "fragment")
}

// PredictSingle predicts one bond.
func (p *PredictionsClient) PredictSingle(ctx context.Context, req *PredictSingleRequest) (*PredictionResult, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeValidation, "request is required")
	}
	if err := requireSMILES(req.SMILES); err != nil {
		return nil, err
	}
	if req.BondIdx < 0 {
		return nil, errors.New(errors.ErrCodeBondIndexInvalid, "bond index must be non-negative")
	}
	var resp APIResponse[PredictionResult]
	if err := p.client.post(ctx, pathPredictSingle, req, &resp); err != nil {
		return nil, err
	}
	return unwrapData(&resp, "predict_single")
}

// PredictMultiple predicts the listed bonds.
func (p *PredictionsClient) PredictMultiple(ctx context.Context, req *PredictMultipleRequest) (*PredictionResult, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeValidation, "request is required")
	}
	if err := requireSMILES(req.SMILES); err != nil {
		return nil, err
	}
	if len(req.BondIndices) == 0 {
		return nil, errors.New(errors.ErrCodeBondIndexInvalid, "at least one bond index is required")
	}
	var resp APIResponse[PredictionResult]
	if err := p.client.post(ctx, pathPredictMultiple, req, &resp); err != nil {
		return nil, err
	}
	return unwrapData(&resp, "predict_multiple")
}

// DownloadReport fetches the base64-encoded report for smiles.  An empty
// format defaults to plain text.
func (p *PredictionsClient) DownloadReport(ctx context.Context, smiles, format string) (*ReportPayload, error) {
	if err := requireSMILES(smiles); err != nil {
		return nil, err
	}
	switch format {
	case "":
		format = ReportFormatTXT
	case ReportFormatTXT, ReportFormatPDF, ReportFormatCSV:
	default:
		return nil, errors.New(errors.ErrCodeReportFormat, "unsupported report format").WithDetail(format)
	}
	var resp APIResponse[ReportPayload]
	if err := p.client.post(ctx, pathDownloadReport, &DownloadReportRequest{SMILES: smiles, Format: format}, &resp); err != nil {
		return nil, err
	}
	return unwrapData(&resp, "download_report")
}

//Personal.AI order the ending
