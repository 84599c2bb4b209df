// Package transcode wraps the external audio transcoder.
//
// The FFmpeg implementation invokes the binary directly with an argument
// list (never through a shell, so paths with quotes or spaces are safe),
// and hands back the combined stdout/stderr text alongside the process
// error. Interpreting that text is the caller's job.
package transcode
