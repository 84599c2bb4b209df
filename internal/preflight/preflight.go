package preflight

import (
	"alacflac/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll checks the transcoder binary and, when dir is non-empty, the
// directory's access rights.
func RunAll(ffmpegBinary, dir string) []Result {
	var results []Result
	for _, status := range deps.CheckBinaries([]deps.Requirement{deps.FFmpegRequirement(ffmpegBinary)}) {
		results = append(results, fromStatus(status))
	}
	if dir != "" {
		results = append(results, CheckDirectoryAccess("Music directory", dir))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	detail := status.Detail
	if status.Available {
		detail = status.Path
	}
	return Result{
		Name:     status.Name,
		Passed:   status.Available,
		Optional: status.Optional,
		Detail:   detail,
	}
}
