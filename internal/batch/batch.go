package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"alacflac/internal/audiofmt"
	"alacflac/internal/convert"
	"alacflac/internal/logging"
)

// ErrBatchFailed is returned when any conversion in the batch failed.
var ErrBatchFailed = errors.New("conversion batch failed")

// FileConverter converts single files for one direction.
type FileConverter interface {
	Convert(ctx context.Context, source string) (convert.Outcome, error)
	Direction() audiofmt.Direction
}

// Options tune a batch run.
type Options struct {
	// Jobs bounds concurrent conversions. Values below 2 run sequentially.
	Jobs   int
	Logger *slog.Logger
}

// FileResult records the outcome of one attempted file.
type FileResult struct {
	Source  string
	Outcome convert.Outcome
	Err     error
}

// Result summarizes a batch.
type Result struct {
	// Files is the full set handed to Run.
	Files []string
	// Attempted lists files the converter was called for, in enumeration order.
	Attempted []FileResult
	Converted int
	Skipped   int
	// Failure is the first failed file, if any.
	Failure *FileResult
}

// Failed reports whether any conversion failed.
func (r Result) Failed() bool { return r.Failure != nil }

// Run converts files with conv. It returns an error wrapping ErrBatchFailed
// when a conversion failed, or the context error when the run was
// interrupted before completing.
func Run(ctx context.Context, conv FileConverter, files []string, opts Options) (Result, error) {
	logger := logging.NewComponentLogger(opts.Logger, "batch")
	start := time.Now()

	var slots []*FileResult
	var err error
	if opts.Jobs <= 1 {
		slots, err = runSequential(ctx, conv, files)
	} else {
		slots, err = runParallel(ctx, conv, files, opts.Jobs)
	}

	result := summarize(files, slots)
	logger.Info("batch finished",
		logging.String("direction", conv.Direction().String()),
		logging.Int("files", len(files)),
		logging.Int("attempted", len(result.Attempted)),
		logging.Int("converted", result.Converted),
		logging.Int("skipped", result.Skipped),
		logging.Bool("failed", result.Failed()),
		logging.Int("jobs", max(opts.Jobs, 1)),
		logging.Duration("elapsed", time.Since(start)),
	)

	if result.Failure != nil {
		return result, fmt.Errorf("%w: %w", ErrBatchFailed, result.Failure.Err)
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

func runSequential(ctx context.Context, conv FileConverter, files []string) ([]*FileResult, error) {
	slots := make([]*FileResult, len(files))
	for i, file := range files {
		outcome, err := conv.Convert(ctx, file)
		slots[i] = &FileResult{Source: file, Outcome: outcome, Err: err}
		switch outcome {
		case convert.Failed:
			return slots, nil
		case convert.Canceled:
			return slots, err
		}
	}
	return slots, ctx.Err()
}

func runParallel(ctx context.Context, conv FileConverter, files []string, jobs int) ([]*FileResult, error) {
	slots := make([]*FileResult, len(files))
	locks := outputLocks(files, conv.Direction())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			mu := locks[convert.NewJob(file, conv.Direction()).Output]
			mu.Lock()
			defer mu.Unlock()

			// A file stopped because a sibling failed is recorded as Canceled.
			outcome, err := conv.Convert(gctx, file)
			slots[i] = &FileResult{Source: file, Outcome: outcome, Err: err}
			if outcome == convert.Failed {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return slots, nil
	}
	return slots, ctx.Err()
}

func outputLocks(files []string, dir audiofmt.Direction) map[string]*sync.Mutex {
	locks := make(map[string]*sync.Mutex, len(files))
	for _, file := range files {
		key := convert.NewJob(file, dir).Output
		if _, ok := locks[key]; !ok {
			locks[key] = &sync.Mutex{}
		}
	}
	return locks
}

func summarize(files []string, slots []*FileResult) Result {
	result := Result{Files: files}
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		result.Attempted = append(result.Attempted, *slot)
		switch slot.Outcome {
		case convert.Converted:
			result.Converted++
		case convert.Skipped:
			result.Skipped++
		case convert.Failed:
			if result.Failure == nil {
				failure := *slot
				result.Failure = &failure
			}
		}
	}
	return result
}
