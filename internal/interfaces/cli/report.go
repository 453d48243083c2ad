package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

func newReportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "report <smiles>",
		Short: "Download the service report of a structure",
		Long: "report downloads the prediction report in txt, pdf or csv format.  The\n" +
			"document is written to --out (- for stdout) or, without --out, to the\n" +
			"configured export sink as report_<smiles>.<format>.",
		Example: `  bdectl report CCO --format pdf --out ethanol.pdf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case client.ReportFormatTXT, client.ReportFormatPDF, client.ReportFormatCSV:
			default:
				return errors.New(errors.ErrCodeReportFormat, "unsupported report format").WithDetail(format)
			}

			run, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer run.cancel()

			data, err := run.session.Workbench.Report(run.ctx, args[0], format)
			if err != nil {
				return err
			}
			if out != "" {
				return writeOutput(cmd, out, data)
			}

			sink, err := run.cli.Sink()
			if err != nil {
				return err
			}
			name := reporting.FileName(reporting.PrefixReport, args[0], format)
			loc, err := sink.Put(run.ctx, name, reporting.ReportContentType(format), data)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("report saved to %s (%d bytes)", loc, len(data)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", client.ReportFormatTXT, "report format (txt, pdf, csv)")
	cmd.Flags().StringVar(&out, "out", "", "output file (- for stdout)")
	return cmd
}

//Personal.AI order the ending
