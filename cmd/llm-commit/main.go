// Package main is the entry point for the llm-commit CLI application.
// llm-commit writes a commit message for the staged changes of a Git
// repository using a local or remote OpenAI-compatible model.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/evertjr/llm-commit/internal/cmd"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
