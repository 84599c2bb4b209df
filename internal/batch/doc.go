// Package batch drives a converter over the files found by a scan.
//
// Files are processed in enumeration order and the batch stops at the
// first failure: later files are left untouched and are not reported as
// failed. By default conversions run one at a time. With Options.Jobs > 1
// a bounded worker pool runs files concurrently; the first failure cancels
// the shared context, which kills in-flight transcoder processes (their
// temporary outputs are removed by the converter) and prevents new files
// from starting. Files sharing an output path are serialized so only one
// of them ever writes it.
package batch
