// Package main provides the repertoire binary: the HTTP API plus the
// migrate and seed maintenance commands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
