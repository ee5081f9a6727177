// Package checks collects the maintenance audits that run over the
// recipe tree and the binary repository: stale builds, unreachable
// source URLs, upstream version drift, missing DLLs, and recipe
// naming consistency.
package checks

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/types"
	"github.com/mingw-builds/mbuild/pkg/version"
)

// StaleOptions tune stale detection.
type StaleOptions struct {
	// IncludeMissing reports recipes with no counterpart in the
	// repository at all.
	IncludeMissing bool

	// IncludeVCS keeps VCS head packages, which are normally
	// uninteresting since their recipe version never advances.
	IncludeVCS bool
}

// FindStale compares each recipe package's build version against the
// repository and returns, sorted by name, the packages whose recipe
// is newer than what the repository carries.
func FindStale(l hclog.Logger, pkgs []*types.Package, current map[string]string, opts StaleOptions) []*types.Package {
	var stale []*types.Package
	for _, p := range pkgs {
		if !opts.IncludeVCS && types.NameIsVCS(p.Name) {
			continue
		}

		repoVer, ok := current[p.Name]
		if !ok {
			if opts.IncludeMissing {
				stale = append(stale, p)
			}
			continue
		}
		if version.NewerThan(p.BuildVersion(), repoVer) {
			l.Debug("Stale package", "package", p.Name,
				"local", p.BuildVersion(), "repo", repoVer)
			stale = append(stale, p)
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].Name < stale[j].Name
	})
	return stale
}
