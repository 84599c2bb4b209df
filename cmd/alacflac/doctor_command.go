package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"alacflac/internal/preflight"
)

var doctorColumns = []column{{title: "Check"}, {title: "Status"}, {title: "Detail"}}

func newDoctorCommand(_ *commandContext) *cobra.Command {
	var ffmpegPath string

	cmd := &cobra.Command{
		Use:   "doctor [directory]",
		Short: "Check that ffmpeg is available and the directory is writable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			results := preflight.RunAll(ffmpegPath, dir)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				kind := statusOK
				switch {
				case !r.Passed && r.Optional:
					kind = statusWarn
				case !r.Passed:
					kind = statusError
				}
				rows = append(rows, []string{r.Name, colorizeStatus(kind, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderTable(doctorColumns, rows))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New(pluralChecks(len(failed)) + " failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary (default: ffmpeg from PATH)")
	return cmd
}

func pluralChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}
