package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const exitInterrupted = 130

// errRunFailed marks a run whose failure was already rendered by the reporter.
var errRunFailed = errors.New("run failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	code := exitCode(ctx, err, os.Stderr)
	stop()
	os.Exit(code)
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		fmt.Fprintln(stderr, "\ninterrupted by user")
		return exitInterrupted
	}
	if err == nil {
		return 0
	}
	if !errors.Is(err, errRunFailed) {
		fmt.Fprintln(stderr, err)
	}
	return 1
}
