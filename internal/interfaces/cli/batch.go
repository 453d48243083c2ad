package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/domain/molecule"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

func newBatchCmd() *cobra.Command {
	var (
		file       string
		summaryOut string
		export     bool
	)

	cmd := &cobra.Command{
		Use:   "batch [smiles...]",
		Short: "Analyze many structures one after another",
		Long: "batch canonicalizes and evaluates every valid descriptor in order.  Invalid\n" +
			"descriptors are skipped before any remote call; a structure the service\n" +
			"cannot analyze is reported as a warning and the run continues.",
		Example: `  bdectl batch --file molecules.txt --summary-out summary.md
  cat molecules.txt | bdectl batch --file - -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer run.cancel()

			items, err := readItems(cmd, run.session.Gate, args, file)
			if err != nil {
				return err
			}
			skipped := 0
			for _, it := range items {
				if it.Validity != molecule.Valid {
					skipped++
				}
			}
			if skipped > 0 {
				PrintWarning(cmd, fmt.Sprintf("skipping %d invalid descriptor(s)", skipped))
			}

			report, err := run.session.Analyzer.Run(run.ctx, items)
			if err != nil {
				return err
			}
			run.cli.Logger.Info("batch finished",
				logging.Int("results", len(report.Results)),
				logging.Int("warnings", len(report.Warnings)),
				logging.Duration("duration", report.Duration))

			view := batchView{Report: report, Skipped: skipped}
			if export {
				if view.Artifacts, err = exportResults(run, report.Results); err != nil {
					return err
				}
			}
			if summaryOut != "" {
				md, err := reporting.RenderSummary(report.Summary())
				if err != nil {
					return err
				}
				if err := os.WriteFile(summaryOut, []byte(md), 0o644); err != nil {
					return err
				}
			}

			if err := PrintResult(cmd, view); err != nil {
				return err
			}
			if report.PartialFailure {
				PrintWarning(cmd, fmt.Sprintf("%d structure(s) could not be analyzed", len(report.Warnings)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read descriptors from a file, one per line (- for stdin)")
	cmd.Flags().StringVar(&summaryOut, "summary-out", "", "write the Markdown summary to this file")
	cmd.Flags().BoolVar(&export, "export", false, "write every result's artifacts to the export sink")
	return cmd
}

func exportResults(run *sessionRun, results []*bde.AnalysisResult) ([]reporting.Artifact, error) {
	sink, err := run.cli.Sink()
	if err != nil {
		return nil, err
	}
	var all []reporting.Artifact
	for _, res := range results {
		artifacts, err := reporting.Export(run.ctx, sink, res.Bundle())
		all = append(all, artifacts...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

//Personal.AI order the ending
