// Package repo interrogates the binary package repository: which
// packages exist and at which versions.
package repo

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/types"
)

// IndexService answers name -> version queries against the binary
// repository.  It can be fed from the local pacman installation or
// from sync database files directly.
type IndexService struct {
	l hclog.Logger

	packages map[string]*types.RepoPackage
}

// NewIndexService creates an empty IndexService.
func NewIndexService(l hclog.Logger) *IndexService {
	is := IndexService{
		l:        l.Named("IndexService"),
		packages: make(map[string]*types.RepoPackage),
	}
	return &is
}

// LoadFromSystem fills the index from the local package manager's
// view of the sync repositories.
func (is *IndexService) LoadFromSystem() error {
	out, err := exec.Command("pacman", "-Sl").Output()
	if err != nil {
		return err
	}
	is.addAll(ParsePacmanList(string(out)))
	return nil
}

// InstalledNames returns the set of package names currently installed
// on the local system.
func (is *IndexService) InstalledNames() (map[string]struct{}, error) {
	out, err := exec.Command("pacman", "-Q").Output()
	if err != nil {
		return nil, err
	}
	return ParseInstalledList(string(out)), nil
}

// PkgCount is a quick check of how many packages this index knows
// about.
func (is *IndexService) PkgCount() int {
	return len(is.packages)
}

// GetPackage returns a single package from the index.
func (is *IndexService) GetPackage(name string) (*types.RepoPackage, error) {
	pkg, ok := is.packages[name]
	if !ok {
		return nil, errors.New("NoSuchPackage")
	}
	return pkg, nil
}

// CurrentVersions returns the name -> version mapping for every known
// package.
func (is *IndexService) CurrentVersions() map[string]string {
	versions := make(map[string]string, len(is.packages))
	for name, p := range is.packages {
		versions[name] = p.Version
	}
	return versions
}

// All returns every known repository package.
func (is *IndexService) All() []*types.RepoPackage {
	out := make([]*types.RepoPackage, 0, len(is.packages))
	for _, p := range is.packages {
		out = append(out, p)
	}
	return out
}

func (is *IndexService) addAll(pkgs []*types.RepoPackage) {
	for _, p := range pkgs {
		is.packages[p.Name] = p
	}
}

// ParsePacmanList parses `pacman -Sl` output: one "repo name version"
// line per package.
func ParsePacmanList(text string) []*types.RepoPackage {
	var pkgs []*types.RepoPackage
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		flds := strings.Fields(line)
		if len(flds) < 3 {
			continue
		}
		pkgs = append(pkgs, &types.RepoPackage{
			Repo:    flds[0],
			Name:    flds[1],
			Version: flds[2],
		})
	}
	return pkgs
}

// ParseInstalledList parses `pacman -Q` output into a name set.
func ParseInstalledList(text string) map[string]struct{} {
	installed := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		installed[strings.Fields(line)[0]] = struct{}{}
	}
	return installed
}
