package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"alacflac/internal/batch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, newCommandContext(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(reportError(os.Stderr, err))
}

// execute runs the command tree and closes the log file afterwards.
func execute(ctx context.Context, cli *commandContext, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := buildRootCommand(cli)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if closeErr := cli.closeLogger(); closeErr != nil && err == nil {
		err = fmt.Errorf("close log file: %w", closeErr)
	}
	return err
}

// reportError prints err for the user and returns the process exit code.
// Interrupts and failed batches exit quietly: the latter already printed
// per-file diagnostics.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, batch.ErrBatchFailed) {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return 1
}
