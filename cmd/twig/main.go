package main

import (
	"os"

	"github.com/eddieland/twig/internal/cli"
)

func main() {
	// Passthrough argv shapes bypass the cobra tree entirely.
	if cli.HandlePassthrough(os.Args) {
		return
	}

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
