package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/doccompare/internal/infrastructure/cli"
)

func main() {
	os.Exit(run(os.Stderr))
}

// run executes the CLI and returns the process exit code. Cobra has already
// printed the error itself; only the hint is added here.
func run(stderr io.Writer) int {
	err := cli.Execute()
	if err == nil {
		return 0
	}
	var cliErr *cli.CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Hint != "" {
			fmt.Fprintf(stderr, "Hint: %s\n", cliErr.Hint)
		}
		if cliErr.ExitCode != 0 {
			return cliErr.ExitCode
		}
	}
	return 1
}
