package main

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/config"
	"github.com/mingw-builds/mbuild/pkg/recipe"
	"github.com/mingw-builds/mbuild/pkg/repo"
	"github.com/mingw-builds/mbuild/pkg/storage"
	"github.com/mingw-builds/mbuild/pkg/types"
)

// loadUniverse parses every recipe under the configured root, using a
// durable srcinfo cache when a store is available.  The returned
// closer shuts the store down; it is a no-op when storage could not
// be initialized.
func loadUniverse(l hclog.Logger, cfg *config.Config, root string) ([]*types.Package, func(), error) {
	closer := func() {}

	storage.DoCallbacks()
	store, err := storage.Initialize(cfg.Storage)
	if err != nil {
		// The cache is an optimization; parsing still works, it
		// just pays the external dump cost every time.
		l.Warn("Couldn't initialize storage, srcinfo caching disabled", "error", err)
		store = newNullStore()
	} else {
		closer = func() { store.Close() }
	}

	gen := recipe.NewCmdGenerator(l)
	loader := recipe.NewLoader(l, gen, recipe.NewCache(store))
	loader.SetParallelism(cfg.Parallelism)

	pkgs, err := loader.Load(root)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return pkgs, closer, nil
}

// loadRepoIndex fills the repository index from the configured sync
// databases, or from the local package manager when none are set.
func loadRepoIndex(l hclog.Logger, cfg *config.Config) (*repo.IndexService, error) {
	idx := repo.NewIndexService(l)
	if len(cfg.SyncDBs) == 0 {
		if err := idx.LoadFromSystem(); err != nil {
			return nil, err
		}
		return idx, nil
	}
	for name, path := range cfg.SyncDBs {
		if err := idx.LoadSyncDB(name, path); err != nil {
			l.Warn("Error loading sync DB", "repo", name, "error", err)
		}
	}
	return idx, nil
}

// nullStore satisfies storage.Storage with no persistence at all.
type nullStore struct{}

func newNullStore() storage.Storage { return nullStore{} }

func (nullStore) Get([]byte) ([]byte, error) { return nil, nil }
func (nullStore) Put([]byte, []byte) error   { return nil }
func (nullStore) Del([]byte) error           { return nil }
func (nullStore) Close() error               { return nil }
