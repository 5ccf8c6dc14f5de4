// Package main provides the battle simulator binary: it loads trainer
// rosters and strategy scripts and runs battles between trainers.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
