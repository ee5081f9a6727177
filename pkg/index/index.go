// Package index maintains the mapping from package names to the
// package records advertising them, and answers transitive dependency
// queries over that mapping.
package index

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/types"
)

// DepIndex maps a package name to the set of all known records
// carrying that name.  More than one recipe variant can produce a
// package of the same name, so lookups return sets.  An index is an
// explicit value owned by one scheduling run; independent runs get
// independent indexes.
type DepIndex struct {
	l hclog.Logger

	pkgs map[string]map[*types.Package]struct{}
}

// New returns an empty index.
func New(l hclog.Logger) *DepIndex {
	return &DepIndex{
		l:    l.Named("index"),
		pkgs: make(map[string]map[*types.Package]struct{}),
	}
}

// Add registers a package under its name.  Once added, the package is
// visible to lookups for the remainder of the run.
func (d *DepIndex) Add(p *types.Package) {
	set, ok := d.pkgs[p.Name]
	if !ok {
		set = make(map[*types.Package]struct{})
		d.pkgs[p.Name] = set
	}
	set[p] = struct{}{}
}

// AddAll registers every package in the slice.
func (d *DepIndex) AddAll(pkgs []*types.Package) {
	for _, p := range pkgs {
		d.Add(p)
	}
}

// ByName returns the set of packages registered under name, which may
// be empty.
func (d *DepIndex) ByName(name string) map[*types.Package]struct{} {
	return d.pkgs[name]
}

// TransitiveDependencies returns the set of all package names
// reachable from p by following declared runtime and build-time
// dependency edges through the index.  The expansion keeps a visited
// set so self-referential and mutually-cyclic graphs terminate.  The
// result holds names, not records: scheduling compares by name so the
// answer is valid across same-named variants.
func (d *DepIndex) TransitiveDependencies(p *types.Package) map[string]struct{} {
	todo := map[*types.Package]struct{}{p: {}}
	done := make(map[*types.Package]struct{})
	deps := make(map[string]struct{})

	for len(todo) > 0 {
		var cur *types.Package
		for cur = range todo {
			break
		}
		delete(todo, cur)
		done[cur] = struct{}{}

		names := make([]string, 0, len(cur.Depends)+len(cur.MakeDepends))
		names = append(names, cur.Depends...)
		names = append(names, cur.MakeDepends...)
		for _, n := range names {
			deps[n] = struct{}{}
			for next := range d.pkgs[n] {
				if _, ok := done[next]; !ok {
					todo[next] = struct{}{}
				}
			}
		}
	}
	return deps
}

// GroupByRecipe partitions packages by the recipe file that produced
// them.  A recipe builds as one unit, so the grouping is the
// granularity at which builds are scheduled.  Every package lands in
// exactly one group, keyed by its origin path.
func GroupByRecipe(pkgs []*types.Package) map[string][]*types.Package {
	groups := make(map[string][]*types.Package)
	for _, p := range pkgs {
		groups[p.Origin] = append(groups[p.Origin], p)
	}
	return groups
}
