// Package main is the lingo-api command. It serves the spaced-repetition API
// and carries the database and vocabulary tooling that goes with it.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lingo-api:", err)
		os.Exit(1)
	}
}
