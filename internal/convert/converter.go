package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"alacflac/internal/audiofmt"
	"alacflac/internal/fileutil"
	"alacflac/internal/logging"
	"alacflac/internal/transcode"
)

// TempSuffix marks in-progress outputs. It matches neither source extension.
const TempSuffix = ".partial"

var (
	// ErrDiagnosticOutput is returned when the transcoder printed anything
	// under the strict policy.
	ErrDiagnosticOutput = errors.New("transcoder produced diagnostic output")
	// ErrProcessLaunch is returned when the transcoder could not be run or
	// exited abnormally.
	ErrProcessLaunch = errors.New("transcoder process failed")
)

// Outcome is the result of one conversion.
type Outcome int

const (
	Converted Outcome = iota
	Skipped
	Failed
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Converted:
		return "converted"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Policy decides how transcoder diagnostics are interpreted.
type Policy int

const (
	// PolicyStrict fails a conversion on any diagnostic text.
	PolicyStrict Policy = iota
	// PolicyExitCode only fails on process errors; diagnostics are shown
	// as warnings.
	PolicyExitCode
)

// Job holds the paths derived from one source file.
type Job struct {
	Source string
	Output string
	Temp   string
}

// NewJob derives the output and temporary paths for source.
func NewJob(source string, dir audiofmt.Direction) Job {
	return Job{
		Source: source,
		Output: fileutil.ReplaceExt(source, dir.Target.Ext),
		Temp:   fileutil.ReplaceExt(source, dir.Target.Ext+TempSuffix),
	}
}

// Converter runs single-file conversions.
type Converter struct {
	transcoder transcode.Transcoder
	direction  audiofmt.Direction
	policy     Policy
	out        io.Writer
	logger     *slog.Logger
}

// Option customizes a Converter.
type Option func(*Converter)

// WithPolicy sets the diagnostic policy.
func WithPolicy(p Policy) Option {
	return func(c *Converter) { c.policy = p }
}

// WithOutput directs progress lines to w. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(c *Converter) {
		if w != nil {
			c.out = &syncWriter{w: w}
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logging.NewComponentLogger(logger, "convert") }
}

// New creates a Converter for the given direction.
func New(t transcode.Transcoder, dir audiofmt.Direction, opts ...Option) *Converter {
	c := &Converter{
		transcoder: t,
		direction:  dir,
		policy:     PolicyStrict,
		out:        io.Discard,
		logger:     logging.NewComponentLogger(nil, "convert"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Direction returns the conversion direction.
func (c *Converter) Direction() audiofmt.Direction { return c.direction }

// Convert produces the target-format counterpart of source.
//
// A non-nil error accompanies Failed and Canceled outcomes. Failures have
// already been reported on the progress output when Convert returns.
func (c *Converter) Convert(ctx context.Context, source string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Canceled, err
	}

	job := NewJob(source, c.direction)
	logger := c.logger.With(logging.String("source", job.Source))

	if fileutil.Exists(job.Output) {
		fmt.Fprintf(c.out, "Skipping (already exists): %s\n", filepath.Base(job.Output))
		logger.Debug("output exists, skipping", logging.String("output", job.Output))
		return Skipped, nil
	}

	fmt.Fprintf(c.out, "Converting: %s\n", filepath.Base(job.Source))

	diagnostics, runErr := c.transcoder.Transcode(ctx, transcode.Request{
		Input:  job.Source,
		Output: job.Temp,
		Target: c.direction.Target,
	})

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.removeTemp(logger, job)
		logger.Debug("conversion canceled", logging.Error(ctxErr))
		return Canceled, ctxErr
	}

	if diagnostics != "" && (c.policy == PolicyStrict || runErr != nil) {
		fmt.Fprintln(c.out, diagnostics)
		c.removeTemp(logger, job)
		err := fmt.Errorf("%s: %w: %s", job.Source, ErrDiagnosticOutput, firstLine(diagnostics))
		logging.ErrorWithContext(logger, "transcoder reported diagnostics", "conversion_diagnostics",
			logging.String("diagnostics", diagnostics),
			logging.Bool("process_error", runErr != nil),
		)
		return Failed, err
	}

	if runErr != nil {
		return c.fail(logger, job, fmt.Errorf("%w: %w", ErrProcessLaunch, runErr))
	}

	if diagnostics != "" {
		fmt.Fprintln(c.out, diagnostics)
		logger.Warn("transcoder warnings ignored", logging.String("diagnostics", diagnostics))
	}

	if err := os.Rename(job.Temp, job.Output); err != nil {
		return c.fail(logger, job, fmt.Errorf("finalize output: %w", err))
	}

	fmt.Fprintf(c.out, "    Successfully converted: %s\n", job.Output)
	logger.Info("converted", logging.String("output", job.Output))
	return Converted, nil
}

func (c *Converter) fail(logger *slog.Logger, job Job, err error) (Outcome, error) {
	fmt.Fprintf(c.out, "!!  Failed to convert: %s\n    Error: %v\n", job.Source, err)
	c.removeTemp(logger, job)
	logging.ErrorWithContext(logger, "conversion failed", "conversion_failed", logging.Error(err))
	return Failed, fmt.Errorf("%s: %w", job.Source, err)
}

func (c *Converter) removeTemp(logger *slog.Logger, job Job) {
	if _, err := fileutil.RemoveIfExists(job.Temp); err != nil {
		logger.Warn("remove temporary output", logging.String("temp", job.Temp), logging.Error(err))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
