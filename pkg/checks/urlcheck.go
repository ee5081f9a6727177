package checks

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/types"
)

// A BrokenURL is one unreachable source URL with the recipes that
// reference it.
type BrokenURL struct {
	URL     string
	Recipes []string
	Error   string
}

// URLChecker probes source URLs for reachability.
type URLChecker struct {
	l hclog.Logger

	client  *http.Client
	workers int
}

// NewURLChecker returns a checker with a pooled client and a worker
// count sized for mostly-idle network waits.
func NewURLChecker(l hclog.Logger) *URLChecker {
	return &URLChecker{
		l:       l.Named("urlcheck"),
		client:  &http.Client{Timeout: 10 * time.Second},
		workers: 50,
	}
}

// Check probes every distinct source URL of the given packages and
// returns the broken ones sorted by URL.  URLs shared between recipes
// are only fetched once.
func (u *URLChecker) Check(pkgs []*types.Package) []BrokenURL {
	sources := make(map[string]map[string]struct{})
	for _, p := range pkgs {
		for _, s := range p.Sources {
			url := SourceURL(s)
			if url == "" {
				continue
			}
			if sources[url] == nil {
				sources[url] = make(map[string]struct{})
			}
			sources[url][p.Origin] = struct{}{}
		}
	}

	urlCh := make(chan string, len(sources))
	for url := range sources {
		urlCh <- url
	}
	close(urlCh)

	var mu sync.Mutex
	var broken []BrokenURL
	wg := new(sync.WaitGroup)

	for i := 0; i < u.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range urlCh {
				errText := u.probe(url)
				if errText == "" {
					continue
				}
				recipes := make([]string, 0, len(sources[url]))
				for r := range sources[url] {
					recipes = append(recipes, r)
				}
				sort.Strings(recipes)
				mu.Lock()
				broken = append(broken, BrokenURL{URL: url, Recipes: recipes, Error: errText})
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(broken, func(i, j int) bool {
		return broken[i].URL < broken[j].URL
	})
	return broken
}

func (u *URLChecker) probe(url string) string {
	resp, err := u.client.Get(url)
	if err != nil {
		return err.Error()
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return resp.Status
	}
	return ""
}

// SourceURL extracts the fetchable URL from a recipe source entry.
// Entries may carry a local rename prefix ("name::url"), and entries
// that are plain filenames have no URL at all.
func SourceURL(source string) string {
	if idx := strings.Index(source, "::"); idx >= 0 {
		source = source[idx+2:]
	}
	if strings.HasPrefix(source, "http:") || strings.HasPrefix(source, "https:") {
		return source
	}
	return ""
}
