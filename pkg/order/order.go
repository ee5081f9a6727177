// Package order produces the sequence in which recipe groups get
// built.
package order

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/index"
	"github.com/mingw-builds/mbuild/pkg/types"
)

// A Group is one recipe file together with the packages it declares.
// Groups are the unit of scheduling; a single builder invocation
// produces every package in the group.
type Group struct {
	Path string
	Pkgs []*types.Package
}

// Base returns the base identity shared by the group's packages,
// used for naming logs and failure markers.
func (g Group) Base() string {
	base := ""
	for _, p := range g.Pkgs {
		if base == "" || p.Base < base {
			base = p.Base
		}
	}
	return base
}

// Names returns the sorted package names in the group.
func (g Group) Names() []string {
	names := make([]string, 0, len(g.Pkgs))
	for _, p := range g.Pkgs {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

type decorated struct {
	group Group

	// name is a fixed representative for comparator decisions; the
	// lexicographically smallest member keeps the choice stable
	// across runs.
	name string
	deps map[string]struct{}
}

// Resolve groups the packages by recipe and sorts the groups so that
// a group generally comes after the groups it depends on.  Dependency
// cycles between groups are expected; they are broken with a
// deterministic tie-break rather than rejected, so for true cycles
// the result is best-effort deterministic, not semantically correct.
func Resolve(l hclog.Logger, idx *index.DepIndex, pkgs []*types.Package) []Group {
	grouped := index.GroupByRecipe(pkgs)

	dec := make([]*decorated, 0, len(grouped))
	for path, members := range grouped {
		d := &decorated{
			group: Group{Path: path, Pkgs: members},
			deps:  make(map[string]struct{}),
		}
		for _, p := range members {
			if d.name == "" || p.Name < d.name {
				d.name = p.Name
			}
			for dep := range idx.TransitiveDependencies(p) {
				d.deps[dep] = struct{}{}
			}
		}
		dec = append(dec, d)
	}

	// Start from a well defined sequence so the comparator sort is
	// reproducible regardless of map iteration order.
	sort.Slice(dec, func(i, j int) bool {
		return dec[i].group.Path < dec[j].group.Path
	})

	// The relation below is not transitive when cycles are present,
	// so this must stay a comparator-driven sort.  A key-extraction
	// sort cannot express the pairwise cycle tie-break.
	sort.SliceStable(dec, func(i, j int) bool {
		return less(dec[i], dec[j])
	})

	l.Debug("Resolved build order", "groups", len(dec))
	out := make([]Group, len(dec))
	for i, d := range dec {
		out[i] = d.group
	}
	return out
}

func less(a, b *decorated) bool {
	_, aNeededByB := b.deps[a.name]
	_, bNeededByA := a.deps[b.name]

	switch {
	case aNeededByB && bNeededByA:
		// Cyclic; fall through to the deterministic key.
		return keyLess(a, b)
	case aNeededByB:
		return true
	case bNeededByA:
		return false
	default:
		return keyLess(a, b)
	}
}

// keyLess orders by (dependency count, representative name), putting
// groups with fewer obligations first.
func keyLess(a, b *decorated) bool {
	if len(a.deps) != len(b.deps) {
		return len(a.deps) < len(b.deps)
	}
	return a.name < b.name
}
