// Package main provides the jsonsql CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/jsonsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
