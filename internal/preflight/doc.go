// Package preflight provides readiness checks for the transcoder binary
// and the directory a conversion run will write into.
//
// The CLI "alacflac doctor" command renders these results. Conversion
// commands do not gate on them: a missing ffmpeg surfaces as a per-file
// process error, exactly like any other launch failure.
package preflight
