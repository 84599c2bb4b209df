package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alacflac/internal/audiofmt"
	"alacflac/internal/batch"
	"alacflac/internal/cleanup"
	"alacflac/internal/convert"
	"alacflac/internal/logging"
	"alacflac/internal/runlock"
	"alacflac/internal/scan"
	"alacflac/internal/staging"
	"alacflac/internal/transcode"
)

type convertOptions struct {
	Jobs       int `flag:"jobs" validate:"min=1"`
	AssumeYes  bool
	Keep       bool
	Lenient    bool
	FFmpegPath string
}

func newConvertCommand(ctx *commandContext, use string, dir audiofmt.Direction) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use: use + " <directory>",
		Short: fmt.Sprintf("Convert all %s files (%s) in a directory, recursively, to %s",
			dir.Source.Ext, dir.Source.Name, dir.Target.Ext),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFlags(opts); err != nil {
				return err
			}
			return runConversion(cmd, ctx, dir, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.Jobs, "jobs", "j", 1, "Number of files to convert concurrently (the batch still stops at the first failure)")
	flags.BoolVarP(&opts.AssumeYes, "yes", "y", false, "Delete the original files after a successful run without asking")
	flags.BoolVar(&opts.Keep, "keep", false, "Keep the original files without asking")
	flags.BoolVar(&opts.Lenient, "lenient", false, "Treat transcoder output as warnings and only fail on a non-zero exit")
	flags.StringVar(&opts.FFmpegPath, "ffmpeg", "", "Path to the ffmpeg binary (default: ffmpeg from PATH)")
	cmd.MarkFlagsMutuallyExclusive("yes", "keep")

	return cmd
}

func runConversion(cmd *cobra.Command, ctx *commandContext, dir audiofmt.Direction, root string, opts convertOptions) error {
	out := cmd.OutOrStdout()
	runCtx := cmd.Context()
	logger := ctx.runLogger()
	ext := dir.Source.Ext

	abs, err := scan.Resolve(root)
	if err != nil {
		return err
	}

	lock, err := runlock.Acquire(ctx.lockDir, abs)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release run lock", logging.String("lock", lock.Path()), logging.Error(err))
		}
	}()

	fmt.Fprintf(out, "Searching for %s files in: %s\n\n", ext, abs)

	files, err := scan.Files(abs, dir.Source)
	if err != nil {
		return err
	}
	logger.Info("scan complete",
		logging.String("root", abs),
		logging.String("direction", dir.String()),
		logging.Int("files", len(files)),
	)
	if len(files) == 0 {
		fmt.Fprintf(out, "No %s files found.\n", ext)
		return nil
	}
	fmt.Fprintf(out, "Found %d %s file(s)\n\n", len(files), ext)

	temps := make([]string, 0, len(files))
	for _, file := range files {
		temps = append(temps, convert.NewJob(file, dir).Temp)
	}
	if swept := staging.CleanPartials(runCtx, temps, logger); len(swept.Errors) > 0 {
		logger.Warn("leftover sweep incomplete", logging.Int("errors", len(swept.Errors)))
	}

	policy := convert.PolicyStrict
	if opts.Lenient {
		policy = convert.PolicyExitCode
	}
	conv := convert.New(
		transcode.NewFFmpeg(opts.FFmpegPath, logger),
		dir,
		convert.WithOutput(out),
		convert.WithPolicy(policy),
		convert.WithLogger(logger),
	)

	if _, err := batch.Run(runCtx, conv, files, batch.Options{Jobs: opts.Jobs, Logger: logger}); err != nil {
		return err
	}

	mode := cleanup.ModeAsk
	switch {
	case opts.AssumeYes:
		mode = cleanup.ModeYes
	case opts.Keep:
		mode = cleanup.ModeNo
	}
	_, err = cleanup.Run(runCtx, files, cleanup.Options{
		Mode:   mode,
		Ext:    ext,
		In:     cmd.InOrStdin(),
		Out:    out,
		Logger: logger,
	})
	return err
}
