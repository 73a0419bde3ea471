// Package main is the sqlinput command.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlinput/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
