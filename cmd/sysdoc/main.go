package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/sysdoc/internal/cli"
)

// main is the entrypoint for the sysdoc command.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the command so it can be tested without exiting.
func run(stdout, stderr io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, stderr)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	return cli.Run(cfg, stdout, stderr)
}
