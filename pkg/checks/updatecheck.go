package checks

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/types"
	"github.com/mingw-builds/mbuild/pkg/version"
)

// Packages that exist only in this distribution and will never have
// an upstream counterpart to compare against.
var upstreamSkip = map[string]struct{}{
	"windows-default-manifest": {},
	"wineditline":              {},
	"libsystre":                {},
	"wintab-sdk":               {},
	"xpm-nox":                  {},
	"flexdll":                  {},
	"winsparkle":               {},
}

// Renames between this distribution and the upstream one.
var upstreamNames = map[string]string{
	"freetype":       "freetype2",
	"lzo2":           "lzo",
	"graphite2":      "graphite",
	"mpc":            "libmpc",
	"eigen3":         "eigen",
	"python3-icu":    "python-pyicu",
	"python3-bsddb3": "python-bsddb",
	"python3":        "python",
	"sqlite3":        "sqlite",
	"gexiv2":         "libgexiv2",
	"webkitgtk3":     "webkitgtk",
	"openssl":        "openssl-1.0",
}

// An UpstreamVersion is what the upstream distribution carries for a
// package, with a link for the report.
type UpstreamVersion struct {
	Version string
	URL     string
}

// An OutdatedPackage pairs a local package with a newer upstream
// version.
type OutdatedPackage struct {
	Name     string
	Local    string
	Upstream string
	URL      string
}

// UpdateChecker queries the upstream distribution's package search
// API, falling back to its user repository, for current versions.
type UpdateChecker struct {
	l hclog.Logger

	client  *http.Client
	workers int

	// SearchURL and AURURL are the two version sources; split out so
	// tests can point them at a local server.
	SearchURL string
	AURURL    string
}

// NewUpdateChecker returns a checker against the Arch Linux APIs.
func NewUpdateChecker(l hclog.Logger) *UpdateChecker {
	return &UpdateChecker{
		l:         l.Named("updatecheck"),
		client:    &http.Client{Timeout: 30 * time.Second},
		workers:   20,
		SearchURL: "https://www.archlinux.org/packages/search/json",
		AURURL:    "https://aur.archlinux.org/rpc.php",
	}
}

// UpstreamName maps a local package name onto the name the upstream
// distribution uses, stripping the target prefix first.
func UpstreamName(name string) string {
	name = StripPrefix(name)
	if mapped, ok := upstreamNames[name]; ok {
		return mapped
	}
	if strings.HasPrefix(name, "python3-") {
		name = strings.Replace(name, "python3-", "python-", 1)
	}
	return strings.ToLower(name)
}

// ShouldSkipUpstream reports whether a package has no meaningful
// upstream counterpart.
func ShouldSkipUpstream(name string) bool {
	name = StripPrefix(name)
	if types.NameIsVCS(name) {
		return true
	}
	_, ok := upstreamSkip[name]
	return ok
}

// StripPrefix removes the mingw target prefix from a package name.
func StripPrefix(name string) string {
	for _, p := range []string{"mingw-w64-x86_64-", "mingw-w64-i686-"} {
		if strings.HasPrefix(name, p) {
			return strings.TrimPrefix(name, p)
		}
	}
	return name
}

// FetchVersions looks up upstream versions for the given names with a
// bounded worker pool and returns everything found, keyed by upstream
// name.
func (u *UpdateChecker) FetchVersions(names []string) map[string]UpstreamVersion {
	nameCh := make(chan string, len(names))
	for _, n := range names {
		nameCh <- n
	}
	close(nameCh)

	var mu sync.Mutex
	found := make(map[string]UpstreamVersion)
	wg := new(sync.WaitGroup)

	for i := 0; i < u.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range nameCh {
				versions := u.fetchOne(name)
				mu.Lock()
				for k, v := range versions {
					found[k] = v
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return found
}

// Outdated compares repository packages against upstream versions and
// returns those the upstream has moved past, sorted by name.
func (u *UpdateChecker) Outdated(pkgs []*types.RepoPackage, upstream map[string]UpstreamVersion) []OutdatedPackage {
	var out []OutdatedPackage
	for _, p := range pkgs {
		if ShouldSkipUpstream(p.Name) {
			continue
		}
		info, ok := upstream[UpstreamName(p.Name)]
		if !ok {
			continue
		}
		if version.NewerThan(info.Version, p.Version) {
			out = append(out, OutdatedPackage{
				Name:     StripPrefix(p.Name),
				Local:    p.Version,
				Upstream: info.Version,
				URL:      info.URL,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func (u *UpdateChecker) fetchOne(name string) map[string]UpstreamVersion {
	upName := UpstreamName(name)

	if versions := u.searchOfficial(upName); len(versions) > 0 {
		return versions
	}
	return u.searchAUR(upName)
}

func (u *UpdateChecker) searchOfficial(name string) map[string]UpstreamVersion {
	var result struct {
		Results []struct {
			Repo     string   `json:"repo"`
			Arch     string   `json:"arch"`
			Pkgname  string   `json:"pkgname"`
			Pkgver   string   `json:"pkgver"`
			Provides []string `json:"provides"`
		} `json:"results"`
	}
	if !u.getJSON(u.SearchURL+"?name="+url.QueryEscape(name), &result) {
		return nil
	}

	versions := make(map[string]UpstreamVersion)
	for _, r := range result.Results {
		link := "https://www.archlinux.org/packages/" + r.Repo + "/" + r.Arch + "/" + r.Pkgname
		versions[name] = UpstreamVersion{Version: r.Pkgver, URL: link}
		for _, prov := range r.Provides {
			if idx := strings.Index(prov, "="); idx >= 0 {
				ver := prov[idx+1:]
				if j := strings.LastIndex(ver, "-"); j >= 0 {
					ver = ver[:j]
				}
				versions[prov[:idx]] = UpstreamVersion{Version: ver, URL: link}
			} else {
				versions[prov] = UpstreamVersion{Version: r.Pkgver, URL: link}
			}
		}
		// The first hit is the package itself; provides of later
		// results only add noise.
		break
	}
	return versions
}

func (u *UpdateChecker) searchAUR(name string) map[string]UpstreamVersion {
	var result struct {
		Results []struct {
			Name    string `json:"Name"`
			Version string `json:"Version"`
		} `json:"results"`
	}
	q := "?v=5&type=search&by=name&arg=" + url.QueryEscape(name)
	if !u.getJSON(u.AURURL+q, &result) {
		return nil
	}

	for _, r := range result.Results {
		if r.Name != name {
			continue
		}
		ver := r.Version
		if j := strings.LastIndex(ver, "-"); j >= 0 {
			ver = ver[:j]
		}
		return map[string]UpstreamVersion{
			name: {Version: ver, URL: "https://aur.archlinux.org/packages/" + r.Name},
		}
	}
	return nil
}

func (u *UpdateChecker) getJSON(url string, out interface{}) bool {
	resp, err := u.client.Get(url)
	if err != nil {
		u.l.Warn("Upstream query failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		u.l.Warn("Bad upstream response", "url", url, "error", err)
		return false
	}
	return true
}
