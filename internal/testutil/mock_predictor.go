package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
)

// MockPredictor is a testify mock of the prediction service endpoints.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Info(ctx context.Context, smiles string) (*client.MoleculeInfo, error) {
	args := m.Called(ctx, smiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.MoleculeInfo), args.Error(1)
}

func (m *MockPredictor) Fragment(ctx context.Context, req *client.FragmentRequest) (*client.FragmentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.FragmentResult), args.Error(1)
}

func (m *MockPredictor) PredictSingle(ctx context.Context, req *client.PredictSingleRequest) (*client.PredictionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.PredictionResult), args.Error(1)
}

func (m *MockPredictor) PredictMultiple(ctx context.Context, req *client.PredictMultipleRequest) (*client.PredictionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.PredictionResult), args.Error(1)
}

func (m *MockPredictor) DownloadReport(ctx context.Context, smiles, format string) (*client.ReportPayload, error) {
	args := m.Called(ctx, smiles, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ReportPayload), args.Error(1)
}

// Fixture helpers shared by service and interface tests.

// InfoFor builds a canonicalization answer for smiles.
func InfoFor(smiles, id string) *client.MoleculeInfo {
	return &client.MoleculeInfo{
		SMILESCanonical: smiles,
		MoleculeID:      id,
		ImageSVG:        `<?xml version='1.0' encoding='iso-8859-1'?><svg width='300px' height='300px'><rect/></svg>`,
	}
}

// FragmentFor builds a bond evaluation answer with one predicted bond.
func FragmentFor(smiles, id string, bde float64) *client.FragmentResult {
	return &client.FragmentResult{
		SMILESCanonical: smiles,
		MoleculeID:      id,
		ImageSVG:        `<svg width='300px' height='300px'><path class='bond-0'/></svg>`,
		BDEValues: []client.BondPrediction{
			{Idx: 0, Atoms: []int{0, 1}, BondAtoms: "C-C", BDE: &bde, BondType: "SINGLE"},
		},
	}
}

//Personal.AI order the ending
