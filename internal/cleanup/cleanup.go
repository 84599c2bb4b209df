// Package cleanup asks whether the sources of a successful batch should be
// deleted and removes them when the user agrees.
package cleanup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"alacflac/internal/fileutil"
	"alacflac/internal/logging"
)

// Mode selects how the delete decision is made.
type Mode int

const (
	// ModeAsk prompts on the input stream.
	ModeAsk Mode = iota
	// ModeYes deletes without prompting.
	ModeYes
	// ModeNo keeps the sources without prompting.
	ModeNo
)

// Options configure Run.
type Options struct {
	Mode Mode
	// Ext is the source extension shown in messages, e.g. ".m4a".
	Ext    string
	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
}

// Run resolves the delete decision and, if confirmed, deletes files.
// It returns the number of files removed.
func Run(ctx context.Context, files []string, opts Options) (int, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := logging.NewComponentLogger(opts.Logger, "cleanup")

	confirmed := opts.Mode == ModeYes
	if opts.Mode == ModeAsk {
		var err error
		confirmed, err = Ask(ctx, opts.In, out, opts.Ext)
		if err != nil {
			return 0, err
		}
	}
	if !confirmed {
		fmt.Fprintf(out, "Keeping original %s files.\n", opts.Ext)
		logger.Info("sources kept", logging.Int("files", len(files)))
		return 0, nil
	}

	fmt.Fprintf(out, "Deleting %s files...\n", opts.Ext)
	deleted, err := DeleteSources(files, logger)
	fmt.Fprintf(out, "Deleted %d %s file(s).\n", deleted, opts.Ext)
	return deleted, err
}

// Ask prints the delete prompt and reads one answer line. Only "y" and
// "yes" (any case) confirm; anything else, including end of input, declines.
func Ask(ctx context.Context, in io.Reader, out io.Writer, ext string) (bool, error) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Delete original %s files? (y/N): ", ext)
	if in == nil {
		fmt.Fprintln(out)
		return false, nil
	}

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", a.err)
		}
		if a.err != nil && a.line == "" {
			// No answer at all; end the prompt line.
			fmt.Fprintln(out)
		}
		return IsAffirmative(a.line), nil
	}
}

// IsAffirmative reports whether answer confirms the deletion.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// DeleteSources removes every file that still exists. Missing files are
// tolerated and not counted. Removal errors are collected and the rest of
// the files are still processed.
func DeleteSources(files []string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	deleted := 0
	var errs []error
	for _, file := range files {
		removed, err := fileutil.RemoveIfExists(file)
		if err != nil {
			logger.Warn("delete source", logging.String("path", file), logging.Error(err))
			errs = append(errs, fmt.Errorf("delete %s: %w", file, err))
			continue
		}
		if removed {
			deleted++
			logger.Debug("source deleted", logging.String("path", file))
		}
	}
	return deleted, errors.Join(errs...)
}
