package recipe

import (
	"crypto/sha1"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/types"
)

// Loader finds recipe files under a root and parses them into package
// records.  Files are independent of each other at parse time, so the
// loader fans them out over a bounded pool of workers; only the
// srcinfo cache is shared between them.
type Loader struct {
	l hclog.Logger

	gen         Generator
	cache       *Cache
	parallelism int
}

// NewLoader returns a loader with parallelism matched to the machine.
func NewLoader(l hclog.Logger, gen Generator, cache *Cache) *Loader {
	return &Loader{
		l:           l.Named("recipe"),
		gen:         gen,
		cache:       cache,
		parallelism: runtime.NumCPU(),
	}
}

// SetParallelism overrides the worker count, mostly useful in tests.
func (ld *Loader) SetParallelism(n int) {
	if n > 0 {
		ld.parallelism = n
	}
}

// Load accepts either a single recipe file or a directory tree to
// search, and returns every package record found.  Files that cannot
// be dumped or parsed are skipped with a warning; they shrink the
// package universe but never fail the load.
func (ld *Loader) Load(root string) ([]*types.Package, error) {
	paths, err := ld.findRecipes(root)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var pkgs []*types.Package

	loadCh := make(chan string, 200)
	wg := new(sync.WaitGroup)

	for i := 0; i < ld.parallelism; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for p := range loadCh {
				ld.l.Debug("Loading recipe", "recipe", p)
				loaded, err := ld.loadOne(p)
				if err != nil {
					ld.l.Warn("Error loading recipe", "recipe", p, "error", err)
					continue
				}
				mu.Lock()
				pkgs = append(pkgs, loaded...)
				mu.Unlock()
			}
			ld.l.Debug("Loader shutting down", "ID", id)
		}(i)
	}

	for _, p := range paths {
		loadCh <- p
	}
	close(loadCh)
	wg.Wait()

	ld.cache.LogStats(ld.l)
	ld.l.Debug("Loaded recipes", "recipes", len(paths), "packages", len(pkgs))
	return pkgs, nil
}

// loadOne hashes the recipe content, pulls the srcinfo text through
// the cache, and parses it.
func (ld *Loader) loadOne(path string) ([]*types.Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := sha1.Sum(content)
	key := hex.EncodeToString(sum[:])

	text, err := ld.cache.GetOrFill(key, func() (string, error) {
		return ld.gen.SrcInfo(path)
	})
	if err != nil {
		return nil, err
	}
	return ParseSrcInfo(path, text), nil
}

func (ld *Loader) findRecipes(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ld.l.Warn("Error walking recipe tree", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() && d.Name() == "PKGBUILD" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
