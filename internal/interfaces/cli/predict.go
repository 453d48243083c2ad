package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the energy of selected bonds",
	}
	cmd.AddCommand(newPredictSingleCmd(), newPredictMultipleCmd())
	return cmd
}

func newPredictSingleCmd() *cobra.Command {
	var (
		id   string
		bond int
	)

	cmd := &cobra.Command{
		Use:     "single <smiles>",
		Short:   "Predict one bond",
		Example: `  bdectl predict single CCO --bond 1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrediction(cmd, args[0], id, func(run *sessionRun, smiles, molID string) (*client.PredictionResult, error) {
				return run.session.Workbench.PredictSingle(run.ctx, smiles, molID, bond)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "molecule id of an already loaded structure")
	cmd.Flags().IntVar(&bond, "bond", 0, "bond index")
	_ = cmd.MarkFlagRequired("bond")
	return cmd
}

func newPredictMultipleCmd() *cobra.Command {
	var (
		id    string
		bonds string
	)

	cmd := &cobra.Command{
		Use:     "multiple <smiles>",
		Short:   "Predict a list of bonds",
		Example: `  bdectl predict multiple c1ccccc1O --bonds 0,2,5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices, err := bde.ParseBondIndices(bonds)
			if err != nil {
				return err
			}
			return runPrediction(cmd, args[0], id, func(run *sessionRun, smiles, molID string) (*client.PredictionResult, error) {
				return run.session.Workbench.PredictMultiple(run.ctx, smiles, molID, indices)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "molecule id of an already loaded structure")
	cmd.Flags().StringVar(&bonds, "bonds", "", "comma-separated bond indices")
	_ = cmd.MarkFlagRequired("bonds")
	return cmd
}

func runPrediction(cmd *cobra.Command, smiles, id string, predict func(*sessionRun, string, string) (*client.PredictionResult, error)) error {
	run, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer run.cancel()

	smiles, molID, err := run.identify(smiles, id)
	if err != nil {
		return err
	}
	res, err := predict(run, smiles, molID)
	if err != nil {
		return err
	}
	return PrintResult(cmd, predictionView{res})
}

//Personal.AI order the ending
