package main

import (
	"github.com/spf13/cobra"

	"alacflac/internal/audiofmt"
)


func buildRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "alacflac",
		Short:         "Batch-convert lossless audio between ALAC (.m4a) and FLAC",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureLogger(cmd.ErrOrStderr())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.logLevel, "log-level", "off", "Structured log level (off, debug, info, warn, error)")
	flags.StringVar(&ctx.logFormat, "log-format", "console", "Structured log format (console or json)")
	flags.StringVar(&ctx.logFile, "log-file", "", "Also append structured logs to this file")

	rootCmd.AddCommand(newConvertCommand(ctx, "to-flac", audiofmt.ToFLAC))
	rootCmd.AddCommand(newConvertCommand(ctx, "to-alac", audiofmt.ToALAC))
	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))

	return rootCmd
}
