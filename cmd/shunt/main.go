package main

import (
	"errors"
	"fmt"
	"os"

	"shunt.dev/shunt/internal/cli"
	shunterrors "shunt.dev/shunt/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, shunterrors.ErrCancelled) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}
