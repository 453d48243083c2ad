package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/internal/domain/molecule"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// readItems classifies the positional descriptors followed by the lines of
// file ("-" reads stdin).
func readItems(cmd *cobra.Command, c bde.Classifier, args []string, file string) ([]bde.Item, error) {
	items := make([]bde.Item, 0, len(args))
	for _, a := range args {
		items = append(items, bde.NewItem(c, a))
	}
	if file != "" {
		var (
			data []byte
			err  error
		)
		if file == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read descriptor file").WithDetail(file)
		}
		items = append(items, bde.ParseItems(c, string(data))...)
	}
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "no descriptors given: pass them as arguments or with --file")
	}
	return items, nil
}

func newValidateCmd() *cobra.Command {
	var (
		file   string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate [smiles...]",
		Short: "Check descriptors locally without contacting the prediction service",
		Example: `  bdectl validate CCO c1ccccc1
  bdectl validate --file molecules.txt --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			gate, err := cliCtx.Gate(cmd.Context())
			if err != nil {
				return err
			}
			items, err := readItems(cmd, gate, args, file)
			if err != nil {
				return err
			}

			view := validationView{Items: items}
			var invalid []string
			for _, it := range items {
				switch it.Validity {
				case molecule.Valid:
					view.Valid++
				case molecule.Invalid:
					invalid = append(invalid, it.Descriptor)
				}
			}
			if err := PrintResult(cmd, view); err != nil {
				return err
			}
			if strict && len(invalid) > 0 {
				return errors.Newf(errors.ErrCodeMoleculeInvalidSMILES, "%d invalid descriptor(s)", len(invalid)).
					WithDetail(strings.Join(invalid, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read descriptors from a file, one per line (- for stdin)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any descriptor is invalid")
	return cmd
}

//Personal.AI order the ending
