// Command bdectl is the DeepBDE console: local descriptor validation, bond
// dissociation energy analysis against the prediction service, batch runs
// and the console HTTP API.
package main

import (
	"context"
	"os"

	"github.com/turtacn/DeepBDE-Console/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute prints the error itself.
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
