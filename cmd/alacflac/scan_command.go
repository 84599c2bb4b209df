package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"alacflac/internal/audiofmt"
	"alacflac/internal/convert"
	"alacflac/internal/fileutil"
	"alacflac/internal/scan"
)

var scanColumns = []column{
	{title: "#", numeric: true},
	{title: "Source"},
	{title: "Output"},
	{title: "Action"},
}

func newScanCommand(_ *commandContext) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "List the files a conversion would touch without converting anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := audiofmt.ParseTarget(target)
			if err != nil {
				return err
			}
			abs, err := scan.Resolve(args[0])
			if err != nil {
				return err
			}
			files, err := scan.Files(abs, dir.Source)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ext := dir.Source.Ext
			if len(files) == 0 {
				fmt.Fprintf(out, "No %s files found.\n", ext)
				return nil
			}

			rows := make([][]string, 0, len(files))
			pending := 0
			for i, file := range files {
				job := convert.NewJob(file, dir)
				action := "convert"
				if fileutil.Exists(job.Output) {
					action = "skip (exists)"
				} else {
					pending++
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					relativeTo(abs, job.Source),
					relativeTo(abs, job.Output),
					action,
				})
			}

			fmt.Fprintf(out, "Found %d %s file(s), %d to convert (%s)\n", len(files), ext, pending, dir)
			fmt.Fprintln(out, renderTable(scanColumns, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "to", "flac", "Target format (flac or alac)")
	return cmd
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
