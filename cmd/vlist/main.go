// Package main provides vlist, a command line front end for the windowing
// engine.
//
// Usage:
//
//	vlist simulate [flags] scenario...   Replay scenario files and report each step
//	vlist render [flags] [file]          Window a text document into the terminal
//	vlist version                        Print version information
//
// Examples:
//
//	vlist simulate feed.yaml gallery.toml
//	vlist simulate -o yaml feed.yaml
//	vlist render --item heading-3 notes.txt
//	cat notes.txt | vlist render --offset 40 -
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
