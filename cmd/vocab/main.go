// Package main is the entry point for the vocab binary: the HTTP server and
// the terminal commands share one configuration and one set of services.
// No business logic belongs here.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
