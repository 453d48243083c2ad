package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

// sessionRun is the common prologue of commands that talk to the service.
type sessionRun struct {
	cli     *CLIContext
	session *bde.Session
	ctx     context.Context
	cancel  context.CancelFunc
}

func openSession(cmd *cobra.Command) (*sessionRun, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := cliCtx.OperationContext(cmd.Context())
	s, err := cliCtx.Session(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	return &sessionRun{cli: cliCtx, session: s, ctx: ctx, cancel: cancel}, nil
}

// identify returns the canonical descriptor and molecule id of smiles,
// loading the structure unless id is already known.
func (r *sessionRun) identify(smiles, id string) (string, string, error) {
	if id != "" {
		return smiles, id, nil
	}
	st, err := r.session.Workbench.LoadStructure(r.ctx, smiles)
	if err != nil {
		return "", "", err
	}
	return st.Canonical, st.Identifier, nil
}

func newInfoCmd() *cobra.Command {
	var svgOut string

	cmd := &cobra.Command{
		Use:   "info <smiles>",
		Short: "Canonicalize a structure and list its bonds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer run.cancel()

			st, err := run.session.Workbench.LoadStructure(run.ctx, args[0])
			if err != nil {
				return err
			}
			run.cli.Logger.Debug("structure loaded",
				logging.String("canonical", st.Canonical),
				logging.String("molecule_id", st.Identifier))

			if svgOut != "" {
				if err := writeOutput(cmd, svgOut, []byte(st.Markup)); err != nil {
					return err
				}
				if svgOut == "-" {
					return nil
				}
			}
			return PrintResult(cmd, structureView{st})
		},
	}

	cmd.Flags().StringVar(&svgOut, "svg", "", "write the sanitized structure drawing to this file (- for stdout)")
	return cmd
}

func newFragmentCmd() *cobra.Command {
	var (
		id          string
		smilesList  bool
		xyz         bool
		bond        int
		bondIndices string
		export      bool
	)

	cmd := &cobra.Command{
		Use:   "fragment <smiles>",
		Short: "Predict bond dissociation energies and fragment payloads",
		Long: "fragment evaluates every bond of a structure, or only --bond/--bonds, and\n" +
			"returns the fragment SMILES list and/or XYZ geometry.  Without --smiles-list\n" +
			"and --xyz the batch.export_* settings decide which payloads are requested.",
		Example: `  bdectl fragment CCO --smiles-list
  bdectl fragment c1ccccc1O --bonds 0,3 --xyz --export`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer run.cancel()

			opts := bde.EvaluateOptions{ExportSMILES: smilesList, ExportXYZ: xyz}
			if !cmd.Flags().Changed("smiles-list") && !cmd.Flags().Changed("xyz") {
				opts.ExportSMILES = run.cli.Config.Batch.ExportSMILES
				opts.ExportXYZ = run.cli.Config.Batch.ExportXYZ
			}
			if cmd.Flags().Changed("bond") {
				idx := bond
				opts.BondIdx = &idx
			}
			if bondIndices != "" {
				if opts.BondIndices, err = bde.ParseBondIndices(bondIndices); err != nil {
					return err
				}
			}

			smiles, molID, err := run.identify(args[0], id)
			if err != nil {
				return err
			}
			res, err := run.session.Workbench.EvaluateBonds(run.ctx, smiles, molID, opts)
			if err != nil {
				return err
			}

			view := analysisView{AnalysisResult: res}
			if export {
				sink, err := run.cli.Sink()
				if err != nil {
					return err
				}
				view.Artifacts, err = reporting.Export(run.ctx, sink, res.Bundle())
				if err != nil {
					return err
				}
			}
			return PrintResult(cmd, view)
		},
	}

	f := cmd.Flags()
	f.StringVar(&id, "id", "", "molecule id of an already loaded structure")
	f.BoolVar(&smilesList, "smiles-list", false, "request the fragment SMILES list")
	f.BoolVar(&xyz, "xyz", false, "request the XYZ geometry")
	f.IntVar(&bond, "bond", 0, "evaluate only this bond index")
	f.StringVar(&bondIndices, "bonds", "", "evaluate only these comma-separated bond indices")
	f.BoolVar(&export, "export", false, "write the drawing, bond table and payloads to the export sink")
	cmd.MarkFlagsMutuallyExclusive("bond", "bonds")
	return cmd
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

//Personal.AI order the ending
