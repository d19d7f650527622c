// Package main is the entry point for starload.
package main

import (
	"fmt"
	"os"

	"github.com/datakettle/starload/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
