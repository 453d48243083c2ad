package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recently analyzed descriptors",
		Long: "The history is kept in Redis when redis.enabled is set and is then shared\n" +
			"by every console instance; otherwise it only lives for one invocation.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent descriptors, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.OperationContext(cmd.Context())
			defer cancel()

			h, err := cliCtx.History(ctx)
			if err != nil {
				return err
			}
			entries := h.Entries()
			if entries == nil {
				entries = []string{}
			}
			return PrintResult(cmd, historyView{Entries: entries, Size: h.Size()})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every recent descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.OperationContext(cmd.Context())
			defer cancel()

			h, err := cliCtx.History(ctx)
			if err != nil {
				return err
			}
			if err := h.Clear(ctx); err != nil {
				return err
			}
			PrintSuccess(cmd, "history cleared")
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

//Personal.AI order the ending
