package executor

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/builder"
	"github.com/mingw-builds/mbuild/pkg/index"
	"github.com/mingw-builds/mbuild/pkg/order"
	"github.com/mingw-builds/mbuild/pkg/types"
)

// Status is the terminal state a group reached during a run.
type Status int

// Groups move PENDING -> {SKIPPED | RUNNING -> {DONE | FAILED}}; only
// the terminal states appear in results.
const (
	StatusDone Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "DONE"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	}
	return "UNKNOWN"
}

// A GroupResult records how one group fared.
type GroupResult struct {
	Group  order.Group
	Status Status

	// Artifacts are the paths the builder produced, for DONE groups.
	Artifacts []string

	// Reason holds the failed package names that caused a skip.
	Reason []string
}

// A Report summarizes one run.  Failed holds every package whose
// build was attempted and errored (or was refused by a marker);
// Skipped holds every package not attempted because something it
// transitively depends on failed.
type Report struct {
	Groups  []GroupResult
	Failed  []*types.Package
	Skipped []*types.Package
}

// HasFailures reports whether any build failed, which is what the
// process exit status communicates to calling automation.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}

// Executor walks a resolved build order and drives the builder.  The
// failed and skipped sets grow strictly in build order and feed back
// into the eligibility of every later group, so groups are processed
// one at a time; the executor is single-threaded on purpose.
type Executor struct {
	l hclog.Logger

	b         builder.Builder
	idx       *index.DepIndex
	outputDir string

	failed  map[string]*types.Package
	skipped map[string]*types.Package
}
