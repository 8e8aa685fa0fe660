package generator

import "errors"

// Status is the outcome of generating one manifest.
type Status int

const (
	// StatusGenerated means the manifest was written.
	StatusGenerated Status = iota
	// StatusUpToDate means check mode found the manifest current.
	StatusUpToDate
	// StatusStale means check mode found the manifest missing or different.
	StatusStale
	// StatusSkipped means the source was missing; this is a warning only.
	StatusSkipped
	// StatusFailed means reading, parsing or writing failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "generated"
	case StatusUpToDate:
		return "up-to-date"
	case StatusStale:
		return "stale"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes one module or index manifest.
type Result struct {
	Module  string // module name, or the index target for indexes
	Index   bool
	Source  string
	Target  string
	Symbols []string
	Status  Status
	Err     error
}

// Report collects the results of one run in processing order.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Count returns the number of results with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Result returns the result for module name.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Module == name {
			return res, true
		}
	}
	return Result{}, false
}

// Err joins the errors of every failed or stale result. Warnings such as a
// missing source do not contribute.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil && !IsWarning(res.Err) {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Warnings returns the errors of results that only warrant a warning.
func (r *Report) Warnings() []error {
	var warnings []error
	for _, res := range r.Results {
		if res.Err != nil && IsWarning(res.Err) {
			warnings = append(warnings, res.Err)
		}
	}
	return warnings
}
