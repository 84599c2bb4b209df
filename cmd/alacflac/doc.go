// Package main hosts the alacflac CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes one conversion command per
// direction (to-flac, to-alac), a dry-run scan, and a doctor command that
// checks for ffmpeg. Logger construction and run locking are handled here
// so the internal packages only deal with scanning, converting and
// cleaning up.
//
// Conversion commands print human-readable progress on stdout. Structured
// logs are opt-in through --log-level and --log-file and never share
// stdout with the progress lines.
package main
