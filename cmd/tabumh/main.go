// Command tabumh is the CLI entrypoint for the penalty-augmented tabu
// search MILP solver. It reads a parsed model from an MPS or OPB/PB file,
// optionally applies auxiliary fixed-variable/solution-hint files, runs
// the solver core, and writes the result as a console table and/or a
// NamedSolution JSON document.
//
// solve.go implements the "solve" command: flag parsing into
// controller.Options, input loading, and output writing.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "tabumh",
		Usage: "penalty-augmented tabu search solver for integer linear programs",
		Commands: []*cli.Command{
			solveCommand,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
