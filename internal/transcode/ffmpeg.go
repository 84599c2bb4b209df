package transcode

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"alacflac/internal/logging"
)

// DefaultBinary is resolved from PATH when no explicit binary is configured.
const DefaultBinary = "ffmpeg"

// FFmpeg implements Transcoder using the ffmpeg CLI.
type FFmpeg struct {
	binary string
	logger *slog.Logger
}

// NewFFmpeg creates an FFmpeg transcoder. An empty binary defaults to
// "ffmpeg" found in PATH; a nil logger discards output.
func NewFFmpeg(binary string, logger *slog.Logger) *FFmpeg {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &FFmpeg{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// Binary returns the configured executable name or path.
func (f *FFmpeg) Binary() string { return f.binary }

// Args builds the ffmpeg argument list for req.
func Args(req Request) []string {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", req.Input,
	}
	args = append(args, req.Target.CodecArgs...)
	args = append(args, "-f", req.Target.Muxer, req.Output)
	return args
}

// Transcode runs ffmpeg for req and returns its combined output.
func (f *FFmpeg) Transcode(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Input) == "" || strings.TrimSpace(req.Output) == "" {
		return "", errors.New("ffmpeg: input and output paths are required")
	}

	args := Args(req)
	f.logger.Debug("invoking transcoder",
		logging.String("binary", f.binary),
		logging.String("input", req.Input),
		logging.String("output", req.Output),
		logging.String("args", strings.Join(args, " ")),
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, f.binary, args...)
	output, err := cmd.CombinedOutput()
	diagnostics := strings.TrimSpace(string(output))

	f.logger.Debug("transcoder finished",
		logging.String("input", req.Input),
		logging.Duration("elapsed", time.Since(start)),
		logging.Int("diagnostic_bytes", len(diagnostics)),
		logging.Bool("process_error", err != nil),
	)

	if err != nil && ctx.Err() != nil {
		return diagnostics, ctx.Err()
	}
	return diagnostics, err
}

var _ Transcoder = (*FFmpeg)(nil)
