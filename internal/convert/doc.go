// Package convert turns one source file into its counterpart in the
// target format.
//
// A conversion never writes the final output directly. The transcoder
// writes to a temporary sibling ("track.flac.partial"), which is renamed
// onto the output only after a clean run and removed on every other path,
// so an interrupted or failed job leaves no partial artifact behind. An
// existing output is proof that the job already ran; it is skipped and
// never overwritten.
//
// Under the default strict policy any text the transcoder prints counts
// as a failure, even when it exits with status zero.
package convert
