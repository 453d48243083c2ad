package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/interfaces/editor"
	"github.com/turtacn/DeepBDE-Console/internal/testutil"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

type cliFixture struct {
	svc    *testutil.MockPredictor
	deps   *CLIDeps
	config string
	outDir string
}

func newCLIFixture(t *testing.T, extraConfig string) *cliFixture {
	svc := new(testutil.MockPredictor)
	outDir := t.TempDir()
	return &cliFixture{
		svc:    svc,
		deps:   &CLIDeps{Service: svc, Logger: testutil.NewMockLogger(), Sink: reporting.NewDirSink(outDir)},
		config: writeConfig(t, extraConfig),
		outDir: outDir,
	}
}

func (f *cliFixture) run(t *testing.T, args ...string) cliResult {
	t.Helper()
	return runCLI(t, f.deps, append([]string{"--config", f.config}, args...)...)
}

func TestValidateCmd(t *testing.T) {
	f := newCLIFixture(t, "")

	res := f.run(t, "validate", "CCO", "C(")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "DESCRIPTOR  VALIDITY")
	assert.Regexp(t, `(?m)^CCO\s+valid$`, res.stdout)
	assert.Regexp(t, `(?m)^C\(\s+invalid$`, res.stdout)

	res = f.run(t, "-o", "json", "validate", "CCO", "C.C")
	require.NoError(t, res.err)
	var view struct {
		Items []struct {
			Descriptor string `json:"descriptor"`
			Validity   string `json:"validity"`
		} `json:"items"`
		Valid int `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.Equal(t, 1, view.Valid)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "invalid", view.Items[1].Validity)

	f.svc.AssertNotCalled(t, "Info", mock.Anything, mock.Anything)
}

func TestValidateCmd_StrictAndFile(t *testing.T) {
	f := newCLIFixture(t, "")
	file := filepath.Join(t.TempDir(), "molecules.txt")
	require.NoError(t, os.WriteFile(file, []byte("# header\nCCO ethanol\n\nC(\n"), 0o600))

	res := f.run(t, "validate", "--file", file, "--strict")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeMoleculeInvalidSMILES))
	assert.Contains(t, res.stdout, "CCO")

	res = f.run(t, "validate")
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))

	res = f.run(t, "validate", "--file", filepath.Join(t.TempDir(), "absent.txt"))
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBadRequest))
}

func TestInfoCmd(t *testing.T) {
	f := newCLIFixture(t, "")
	f.svc.On("Info", mock.Anything, "CCO").Return(testutil.InfoFor("CCO", "m1"), nil).Once()

	res := f.run(t, "info", "CCO")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Canonical:   CCO")
	assert.Contains(t, res.stdout, "Molecule ID: m1")
	assert.Contains(t, res.stdout, "3 atoms")
	f.svc.AssertExpectations(t)
}

func TestInfoCmd_SVGToStdout(t *testing.T) {
	f := newCLIFixture(t, "")
	f.svc.On("Info", mock.Anything, "CCO").Return(testutil.InfoFor("CCO", "m1"), nil).Once()

	res := f.run(t, "info", "CCO", "--svg", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "<svg")
	assert.Contains(t, res.stdout, "100%")
	assert.NotContains(t, res.stdout, "Molecule ID")
}

func TestInfoCmd_RejectsLocallyInvalid(t *testing.T) {
	f := newCLIFixture(t, "")

	res := f.run(t, "info", "C(")
	require.Error(t, res.err)
	f.svc.AssertNotCalled(t, "Info", mock.Anything, mock.Anything)
}

func TestFragmentCmd(t *testing.T) {
	f := newCLIFixture(t, "")
	f.svc.On("Info", mock.Anything, "CCO").Return(testutil.InfoFor("CCO", "m1"), nil).Once()
	f.svc.On("Fragment", mock.Anything, mock.MatchedBy(func(r *client.FragmentRequest) bool {
		return r.MoleculeID == "m1" && r.ExportSMILES && !r.ExportXYZ && r.BondIdx == nil
	})).Return(testutil.FragmentFor("CCO", "m1", 88.5), nil).Once()

	res := f.run(t, "fragment", "CCO", "--export")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "88.5000")
	assert.Contains(t, res.stdout, "Weakest:     bond 0")
	assert.Contains(t, res.stdout, "exported bde_table_CCO.tsv")

	table, err := os.ReadFile(filepath.Join(f.outDir, "bde_table_CCO.tsv"))
	require.NoError(t, err)
	assert.Contains(t, string(table), "88.5000")
	f.svc.AssertExpectations(t)
}

func TestFragmentCmd_BondSelectionWithKnownID(t *testing.T) {
	f := newCLIFixture(t, "")
	f.svc.On("Fragment", mock.Anything, mock.MatchedBy(func(r *client.FragmentRequest) bool {
		return r.MoleculeID == "m7" && r.ExportXYZ && !r.ExportSMILES && len(r.BondIndices) == 2
	})).Return(testutil.FragmentFor("CCO", "m7", 91.25), nil).Once()

	res := f.run(t, "-o", "table", "fragment", "CCO", "--id", "m7", "--xyz", "--bonds", "0, 1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "91.2500")
	f.svc.AssertNotCalled(t, "Info", mock.Anything, mock.Anything)
	f.svc.AssertExpectations(t)
}

func TestFragmentCmd_NoExportSelected(t *testing.T) {
	f := newCLIFixture(t, "")

	res := f.run(t, "fragment", "CCO", "--id", "m1", "--smiles-list=false", "--xyz=false")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeExportSelectionMissing))
	f.svc.AssertNotCalled(t, "Fragment", mock.Anything, mock.Anything)
}

func TestPredictCmds(t *testing.T) {
	f := newCLIFixture(t, "")
	bde := 101.5
	f.svc.On("PredictSingle", mock.Anything, &client.PredictSingleRequest{SMILES: "CCO", MoleculeID: "m1", BondIdx: 1}).
		Return(&client.PredictionResult{SMILESCanonical: "CCO", MoleculeID: "m1", BDEValues: []client.BondPrediction{
			{Idx: 1, Atoms: []int{1, 2}, BondAtoms: "C-O", BDE: &bde},
		}}, nil).Once()
	f.svc.On("PredictMultiple", mock.Anything, &client.PredictMultipleRequest{SMILES: "CCO", MoleculeID: "m1", BondIndices: []int{0, 1}}).
		Return(&client.PredictionResult{SMILESCanonical: "CCO", MoleculeID: "m1", BDEValues: []client.BondPrediction{
			{Idx: 0, BondAtoms: "C-C"},
			{Idx: 1, BondAtoms: "C-O", BDE: &bde},
		}}, nil).Once()

	res := f.run(t, "predict", "single", "CCO", "--id", "m1", "--bond", "1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1-2")
	assert.Contains(t, res.stdout, "101.5000")

	res = f.run(t, "-o", "json", "predict", "multiple", "CCO", "--id", "m1", "--bonds", "0,x,1,-4")
	require.NoError(t, res.err)
	var out client.PredictionResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	require.Len(t, out.BDEValues, 2)
	assert.Nil(t, out.BDEValues[0].BDE)
	f.svc.AssertExpectations(t)
}

func TestPredictCmds_Rejections(t *testing.T) {
	f := newCLIFixture(t, "")

	res := f.run(t, "predict", "multiple", "CCO", "--id", "m1", "--bonds", "x,-1")
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBondIndexInvalid))

	res = f.run(t, "predict", "single", "CCO", "--id", "m1", "--bond", "-2")
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeBondIndexInvalid))

	res = f.run(t, "predict", "single", "CCO")
	assert.Error(t, res.err, "--bond is required")

	f.svc.AssertNotCalled(t, "PredictSingle", mock.Anything, mock.Anything)
	f.svc.AssertNotCalled(t, "PredictMultiple", mock.Anything, mock.Anything)
}

func TestBatchCmd(t *testing.T) {
	f := newCLIFixture(t, "")
	f.svc.On("Info", mock.Anything, "CCO").Return(testutil.InfoFor("CCO", "m1"), nil).Once()
	f.svc.On("Info", mock.Anything, "c1ccccc1").
		Return(nil, errors.Transport(stderrors.New("connection refused"), "prediction service unreachable")).Once()
	f.svc.On("Fragment", mock.Anything, mock.Anything).Return(testutil.FragmentFor("CCO", "m1", 88.5), nil).Once()

	dir := t.TempDir()
	input := filepath.Join(dir, "batch.txt")
	summary := filepath.Join(dir, "summary.md")
	require.NoError(t, os.WriteFile(input, []byte("CCO\nC(\nc1ccccc1\n"), 0o600))

	res := f.run(t, "batch", "--file", input, "--summary-out", summary, "--export")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "- c1ccccc1 (canonicalize)")
	assert.Contains(t, res.stderr, "skipping 1 invalid descriptor(s)")
	assert.Contains(t, res.stderr, "1 structure(s) could not be analyzed")

	md, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(md), "c1ccccc1")
	_, err = os.Stat(filepath.Join(f.outDir, "bde_table_CCO.tsv"))
	assert.NoError(t, err)
	f.svc.AssertExpectations(t)
}

func TestBatchCmd_JSONAndStdin(t *testing.T) {
	f := newCLIFixture(t, "")
	f.svc.On("Info", mock.Anything, "CCO").Return(testutil.InfoFor("CCO", "m1"), nil).Once()
	f.svc.On("Fragment", mock.Anything, mock.Anything).Return(testutil.FragmentFor("CCO", "m1", 88.5), nil).Once()

	cmd, cleanup := newRootCmd(f.deps)
	defer cleanup()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&strings.Builder{})
	cmd.SetIn(strings.NewReader("CCO\n"))
	cmd.SetArgs([]string{"--config", f.config, "-o", "json", "batch", "--file", "-"})
	require.NoError(t, cmd.Execute())

	var report struct {
		Submitted      int  `json:"submitted"`
		PartialFailure bool `json:"partial_failure"`
		Skipped        int  `json:"skipped"`
		Results        []struct {
			Identifier string `json:"identifier"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &report))
	assert.Equal(t, 1, report.Submitted)
	assert.False(t, report.PartialFailure)
	assert.Zero(t, report.Skipped)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "m1", report.Results[0].Identifier)
}

func TestBatchCmd_NoValidItems(t *testing.T) {
	f := newCLIFixture(t, "")

	res := f.run(t, "batch", "C(", "C.C")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeNoValidItems))
	f.svc.AssertNotCalled(t, "Info", mock.Anything, mock.Anything)
}

func TestReportCmd(t *testing.T) {
	f := newCLIFixture(t, "")
	payload := &client.ReportPayload{ReportBase64: base64.StdEncoding.EncodeToString([]byte("idx,bde\n0,88.5\n"))}
	f.svc.On("DownloadReport", mock.Anything, "CCO", "csv").Return(payload, nil).Twice()

	out := filepath.Join(t.TempDir(), "ethanol.csv")
	res := f.run(t, "report", "CCO", "--format", "csv", "--out", out)
	require.NoError(t, res.err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "idx,bde\n0,88.5\n", string(data))

	res = f.run(t, "report", "CCO", "--format", "csv")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "report saved to")
	_, err = os.Stat(filepath.Join(f.outDir, "report_CCO.csv"))
	assert.NoError(t, err)

	res = f.run(t, "report", "CCO", "--format", "docx")
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeReportFormat))
	f.svc.AssertExpectations(t)
}

func TestHistoryCmds_InMemory(t *testing.T) {
	f := newCLIFixture(t, "")

	res := f.run(t, "-o", "json", "history", "list")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"entries":[],"size":10}`, res.stdout)

	res = f.run(t, "history", "clear")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "history cleared")
}

func TestHistoryCmds_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	f := newCLIFixture(t, "redis:\n  enabled: true\n  addr: "+mr.Addr()+"\n  key: test:history\n")
	_, err = mr.RPush("test:history", "c1ccccc1", "CCO")
	require.NoError(t, err)

	res := f.run(t, "history", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1  c1ccccc1")
	assert.Contains(t, res.stdout, "2  CCO")

	// a structure loaded by one invocation is visible to the next
	f.svc.On("Info", mock.Anything, "CCN").Return(testutil.InfoFor("CCN", "m2"), nil).Once()
	require.NoError(t, f.run(t, "info", "CCN").err)
	stored, err := mr.List("test:history")
	require.NoError(t, err)
	assert.Equal(t, []string{"CCN", "c1ccccc1", "CCO"}, stored)

	require.NoError(t, f.run(t, "history", "clear").err)
	assert.False(t, mr.Exists("test:history"))
}

func TestHistoryCmds_RedisUnreachable(t *testing.T) {
	f := newCLIFixture(t, "redis:\n  enabled: true\n  addr: 127.0.0.1:1\n  dial_timeout: 200ms\n")

	res := f.run(t, "history", "list")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeStorage))
}

func TestEditorFetchCmd(t *testing.T) {
	f := newCLIFixture(t, "")
	srv := httptest.NewServer(editor.Handler(editor.GetterFunc(func() (string, error) { return " CCO\n", nil }), nil))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	res := f.run(t, "editor", "fetch", "--url", wsURL)
	require.NoError(t, res.err)
	assert.Equal(t, "CCO\n", res.stdout)

	f.svc.On("Info", mock.Anything, "CCO").Return(testutil.InfoFor("CCO", "m1"), nil).Once()
	res = f.run(t, "editor", "fetch", "--url", wsURL, "--load")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Molecule ID: m1")
}

func TestEditorFetchCmd_Unavailable(t *testing.T) {
	f := newCLIFixture(t, "")

	res := f.run(t, "editor", "fetch")
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeEditorUnavailable))

	res = f.run(t, "editor", "fetch", "--url", "ws://127.0.0.1:1/editor")
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeEditorUnavailable))
}

func TestRunServer_ServesAndShutsDown(t *testing.T) {
	f := newCLIFixture(t, "")
	f.svc.On("Info", mock.Anything, "CCO").Return(testutil.InfoFor("CCO", "m1"), nil).Once()

	cliCtx := &CLIContext{
		Config: mustConfig(t, "server:\n  rate_limit: 100\n  shutdown_timeout: 2s\n"),
		Logger: testutil.NewMockLogger(),
		deps:   *f.deps,
		errOut: &strings.Builder{},
	}
	defer cliCtx.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, cliCtx, ln) }()

	resp, err := http.Get(base + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(base+"/api/v1/structures", "application/json", strings.NewReader(`{"smiles":"CCO"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body := new(strings.Builder)
	_, _ = io.Copy(body, resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), `bde_remote_calls_total{operation="canonicalize",status="success"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	f.svc.AssertExpectations(t)
}

//Personal.AI order the ending
