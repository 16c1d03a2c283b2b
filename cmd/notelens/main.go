// Package main provides the entry point for the notelens CLI.
package main

import (
	"os"

	"github.com/notelens/notelens/cmd/notelens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
