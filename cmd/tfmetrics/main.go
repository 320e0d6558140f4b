package main

import (
	"context"
	"os"

	cmdutil "github.com/leg100/tfmetrics/cmd"
	"github.com/leg100/tfmetrics/internal/cli"
)

func main() {
	// Configure ^C to abort any in-flight requests
	ctx, stop := cmdutil.InterruptContext(context.Background())

	err := cli.NewCLI().Run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		cmdutil.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
