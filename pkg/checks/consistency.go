package checks

import (
	"path/filepath"
	"sort"

	"github.com/mingw-builds/mbuild/pkg/types"
)

// A BaseMismatch is a recipe whose directory name disagrees with the
// base identity it declares.
type BaseMismatch struct {
	Recipe string
	Base   string
}

// FindBaseMismatches reports recipes living in a directory that is
// not named after their pkgbase.  The tree layout convention makes
// recipes findable by base; drift here is worth flagging.
func FindBaseMismatches(pkgs []*types.Package) []BaseMismatch {
	seen := make(map[BaseMismatch]struct{})
	for _, p := range pkgs {
		dir := filepath.Base(filepath.Dir(p.Origin))
		if dir != p.Base {
			seen[BaseMismatch{Recipe: p.Origin, Base: p.Base}] = struct{}{}
		}
	}

	out := make([]BaseMismatch, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Recipe < out[j].Recipe
	})
	return out
}
