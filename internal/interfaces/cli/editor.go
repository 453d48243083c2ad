package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/interfaces/editor"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

func newEditorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editor",
		Short: "Talk to the structure drawing editor",
	}
	cmd.AddCommand(newEditorFetchCmd())
	return cmd
}

func newEditorFetchCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
		load    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print the descriptor currently drawn in the editor",
		Example: `  bdectl editor fetch --url ws://localhost:8080/api/v1/editor/ws
  bdectl editor fetch --load -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if url == "" {
				url = cliCtx.Config.Editor.URL
			}
			if url == "" {
				return errors.New(errors.ErrCodeEditorUnavailable, "no editor endpoint: pass --url or set editor.url")
			}
			if timeout <= 0 {
				timeout = cliCtx.Config.Editor.Timeout
			}

			ctx, cancel := cliCtx.OperationContext(cmd.Context())
			defer cancel()

			conn, err := editor.Dial(ctx, url, timeout, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			src, err := editor.Probe(ctx, conn)
			if err != nil {
				return err
			}
			descriptor, err := src.Descriptor(ctx)
			if err != nil {
				return err
			}
			if !load {
				return PrintResult(cmd, descriptor)
			}

			s, err := cliCtx.Session(ctx)
			if err != nil {
				return err
			}
			st, err := s.Workbench.LoadStructure(ctx, descriptor)
			if err != nil {
				return err
			}
			return PrintResult(cmd, structureView{st})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "editor websocket endpoint; overrides editor.url")
	cmd.Flags().DurationVar(&timeout, "editor-timeout", 0, "per-request editor timeout; overrides editor.timeout")
	cmd.Flags().BoolVar(&load, "load", false, "also canonicalize the fetched structure")
	return cmd
}

//Personal.AI order the ending
