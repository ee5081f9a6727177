// Package executor walks a resolved build order, invoking the
// builder per recipe group and propagating failures to downstream
// groups.
package executor

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/builder"
	"github.com/mingw-builds/mbuild/pkg/index"
	"github.com/mingw-builds/mbuild/pkg/order"
	"github.com/mingw-builds/mbuild/pkg/types"
)

// New returns an executor writing artifacts, logs, and failure
// markers into outputDir.
func New(l hclog.Logger, b builder.Builder, idx *index.DepIndex, outputDir string) *Executor {
	return &Executor{
		l:         l.Named("executor"),
		b:         b,
		idx:       idx,
		outputDir: outputDir,
		failed:    make(map[string]*types.Package),
		skipped:   make(map[string]*types.Package),
	}
}

// Run processes the groups strictly in order.  Each group is skipped
// if any already-failed package is among its packages' transitive
// dependencies, refused if a failure marker from an earlier
// invocation exists, and otherwise handed to the builder.  The run
// itself only errors when the output directory cannot be created;
// build failures are recorded in the report, not returned.
func (e *Executor) Run(groups []order.Group) (*Report, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, g := range groups {
		report.Groups = append(report.Groups, e.runGroup(g))
	}

	report.Failed = sortedPkgs(e.failed)
	report.Skipped = sortedPkgs(e.skipped)

	e.l.Info("Run complete", "groups", len(groups),
		"failed", len(report.Failed), "skipped", len(report.Skipped))
	return report, nil
}

func (e *Executor) runGroup(g order.Group) GroupResult {
	if reason := e.skipReason(g); len(reason) > 0 {
		e.l.Warn("Skipping group", "recipe", g.Path, "failed", reason)
		for _, p := range g.Pkgs {
			e.skipped[p.Name] = p
		}
		return GroupResult{Group: g, Status: StatusSkipped, Reason: reason}
	}

	marker := e.markerPath(g)
	if _, err := os.Stat(marker); err == nil {
		// A previous invocation failed this recipe.  Refuse to
		// touch it again until an operator removes the marker.
		e.l.Warn("Failure marker present, refusing build", "recipe", g.Path, "marker", marker)
		e.fail(g)
		return GroupResult{Group: g, Status: StatusFailed}
	}

	e.l.Info("Starting build", "recipe", g.Path)
	artifacts, err := e.b.Build(g.Path, g.Pkgs, e.outputDir)
	if err != nil {
		e.l.Warn("Build failed", "recipe", g.Path, "error", err)
		e.writeMarker(marker)
		e.cleanup(artifacts)
		e.fail(g)
		return GroupResult{Group: g, Status: StatusFailed}
	}

	e.l.Info("Build complete", "recipe", g.Path, "artifacts", len(artifacts))
	return GroupResult{Group: g, Status: StatusDone, Artifacts: artifacts}
}

// skipReason returns the names of failed packages that any package in
// the group transitively depends on.  Only real failures propagate;
// skipped packages never show up here, so a skip chain always traces
// back to an actual failed build.
func (e *Executor) skipReason(g order.Group) []string {
	reason := make(map[string]struct{})
	for name := range e.failed {
		for _, p := range g.Pkgs {
			if _, ok := e.idx.TransitiveDependencies(p)[name]; ok {
				reason[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(reason))
	for n := range reason {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Executor) fail(g order.Group) {
	for _, p := range g.Pkgs {
		e.failed[p.Name] = p
	}
}

func (e *Executor) markerPath(g order.Group) string {
	return filepath.Join(e.outputDir, g.Base()+".failed")
}

func (e *Executor) writeMarker(path string) {
	f, err := os.Create(path)
	if err != nil {
		e.l.Warn("Unable to write failure marker", "path", path, "error", err)
		return
	}
	f.Close()
}

// cleanup removes partially produced artifacts after a failed build.
// Best effort only; a leftover file is not worth escalating over.
func (e *Executor) cleanup(artifacts []string) {
	for _, a := range artifacts {
		if err := os.Remove(a); err != nil {
			e.l.Debug("Unable to remove artifact", "path", a, "error", err)
		}
	}
}

func sortedPkgs(set map[string]*types.Package) []*types.Package {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]*types.Package, 0, len(names))
	for _, n := range names {
		out = append(out, set[n])
	}
	return out
}
