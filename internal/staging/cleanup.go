package staging

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"alacflac/internal/logging"
)

// CleanResult contains the outcome of a leftover sweep.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a file path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanPartials removes the given temp paths when they exist as regular
// files. Callers pass the temp paths of the jobs they are about to run, so
// nothing but alacflac's own leftovers is touched. Callers must hold the
// run lock covering every path.
func CleanPartials(ctx context.Context, temps []string, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	for _, path := range temps {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			return result
		}
		info, err := os.Lstat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logger.Warn("failed to remove leftover temp file",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "partial_cleanup_failed"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("removed leftover temp file",
			logging.String("path", path),
			logging.String(logging.FieldEventType, "partial_cleanup"),
		)
	}

	return result
}
