package recipe

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory storage.Storage for tests.
type memStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStore() *memStore { return &memStore{m: make(map[string][]byte)} }

func (s *memStore) Get(k []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[string(k)], nil
}

func (s *memStore) Put(k, v []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[string(k)] = v
	return nil
}

func (s *memStore) Del(k []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, string(k))
	return nil
}

func (s *memStore) Close() error { return nil }

// countingGen returns canned srcinfo and counts invocations.
type countingGen struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (g *countingGen) SrcInfo(path string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.fail {
		return "", errors.New("dump failed")
	}
	name := filepath.Base(filepath.Dir(path))
	return "pkgbase = " + name + "\n\tpkgver = 1\n\tpkgrel = 1\n\npkgname = " + name + "\n", nil
}

func writeRecipe(t *testing.T, root, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	p := filepath.Join(dir, "PKGBUILD")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoaderTree(t *testing.T) {
	root := t.TempDir()
	writeRecipe(t, root, "foo", "pkgname=foo")
	writeRecipe(t, root, "bar", "pkgname=bar")

	gen := &countingGen{}
	ld := NewLoader(hclog.NewNullLogger(), gen, NewCache(newMemStore()))
	ld.SetParallelism(2)

	pkgs, err := ld.Load(root)
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, 2, gen.calls)

	names := []string{pkgs[0].Name, pkgs[1].Name}
	assert.ElementsMatch(t, []string{"foo", "bar"}, names)
}

func TestLoaderSingleFile(t *testing.T) {
	root := t.TempDir()
	p := writeRecipe(t, root, "foo", "pkgname=foo")

	ld := NewLoader(hclog.NewNullLogger(), &countingGen{}, NewCache(newMemStore()))
	pkgs, err := ld.Load(p)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, p, pkgs[0].Origin)
}

func TestLoaderCacheHit(t *testing.T) {
	root := t.TempDir()
	// Identical content in two recipes means one external dump.
	writeRecipe(t, root, "foo", "pkgname=same")
	writeRecipe(t, root, "bar", "pkgname=same")

	gen := &countingGen{}
	ld := NewLoader(hclog.NewNullLogger(), gen, NewCache(newMemStore()))
	ld.SetParallelism(1)

	pkgs, err := ld.Load(root)
	require.NoError(t, err)
	assert.Len(t, pkgs, 2)
	assert.Equal(t, 1, gen.calls)
}

func TestLoaderCachePersists(t *testing.T) {
	root := t.TempDir()
	writeRecipe(t, root, "foo", "pkgname=foo")

	store := newMemStore()
	gen := &countingGen{}

	ld := NewLoader(hclog.NewNullLogger(), gen, NewCache(store))
	_, err := ld.Load(root)
	require.NoError(t, err)

	// A fresh loader over the same store must not re-dump.
	ld2 := NewLoader(hclog.NewNullLogger(), gen, NewCache(store))
	_, err = ld2.Load(root)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestLoaderSkipsBadRecipes(t *testing.T) {
	root := t.TempDir()
	writeRecipe(t, root, "foo", "pkgname=foo")

	ld := NewLoader(hclog.NewNullLogger(), &countingGen{fail: true}, NewCache(newMemStore()))
	pkgs, err := ld.Load(root)
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}
