package transcode

import (
	"context"

	"alacflac/internal/audiofmt"
)

// Request describes one transcoder invocation.
type Request struct {
	Input  string
	Output string
	Target audiofmt.Format
}

// Transcoder converts a single file.
//
// Transcode returns the trimmed diagnostic text the tool produced, plus
// any process-level error (launch failure, non-zero exit, cancellation).
// Both may be set at once.
type Transcoder interface {
	Transcode(ctx context.Context, req Request) (string, error)
}
