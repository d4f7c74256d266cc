// Package main provides the CLI entrypoint for fixedfmt.
//
// fixedfmt is a companion tool for fixed-width record schemas:
//   - tokens: compiles a pattern and lists its literal and placeholder tokens
//   - scaffold: loads Go packages and writes a YAML schema skeleton from `fixed` tags
//   - check: validates a YAML schema file against the Go types it names
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
