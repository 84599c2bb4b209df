// Package audiofmt describes the two lossless formats alacflac converts
// between and the ffmpeg arguments that produce each of them.
//
// A Direction pairs a source and a target Format. Everything downstream
// (scanning, path derivation, transcoder arguments, user-facing messages)
// is driven by the Direction selected on the command line, so both
// conversion directions share a single code path.
package audiofmt
