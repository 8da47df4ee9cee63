package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skyfleet/skymanager/internal/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func init() {
	// Force truecolor so hex colors render correctly.
	// Must be set before any lipgloss style initialization.
	os.Setenv("COLORTERM", "truecolor")
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cmd.RootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
