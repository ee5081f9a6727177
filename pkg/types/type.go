package types

import (
	"strings"
)

// A Package is a single buildable unit as declared by a recipe file.
// One recipe may declare several packages (e.g. one per target
// prefix); each gets its own record.  Records are immutable once the
// recipe has been parsed, and two records with identical fields are
// still distinct packages for grouping purposes.
type Package struct {
	Name    string
	Base    string
	Version string
	Release string
	Epoch   string

	Depends     []string
	MakeDepends []string
	Sources     []string

	// Origin is the path of the recipe file this record was parsed
	// from.
	Origin string
}

// BuildVersion returns the full version string a built artifact
// carries, in the form version-release, prefixed with epoch~ when an
// epoch is set.
func (p *Package) BuildVersion() string {
	v := p.Version + "-" + p.Release
	if p.Epoch != "" {
		v = p.Epoch + "~" + v
	}
	return v
}

// A RepoPackage is a package as known to the binary repository, which
// only tracks names and versions.
type RepoPackage struct {
	Repo    string
	Name    string
	Version string
}

// NameIsVCS reports whether a package tracks an upstream VCS head
// rather than a release, based on the conventional name suffixes.
func NameIsVCS(name string) bool {
	for _, s := range []string{"-cvs", "-svn", "-hg", "-darcs", "-bzr", "-git"} {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
