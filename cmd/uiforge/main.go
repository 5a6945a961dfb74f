// Package main is the entry point for the uiforge CLI.
package main

import (
	"os"

	"github.com/jmylchreest/uiforge/cmd/uiforge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
