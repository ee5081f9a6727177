package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, msg string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	h, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return h.String()
}

func TestBootstrapOpensExisting(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	rev := commitFile(t, repo, dir, "gtk3/PKGBUILD", "pkgname=gtk3", "add gtk3")

	tree := New(hclog.NewNullLogger())
	tree.Path = dir
	require.NoError(t, tree.Bootstrap())

	at, err := tree.At()
	require.NoError(t, err)
	assert.Equal(t, rev, at)
}

func TestBootstrapClones(t *testing.T) {
	upstream := t.TempDir()
	repo, err := git.PlainInit(upstream, false)
	require.NoError(t, err)
	rev := commitFile(t, repo, upstream, "gtk3/PKGBUILD", "pkgname=gtk3", "add gtk3")

	tree := New(hclog.NewNullLogger())
	tree.Path = filepath.Join(t.TempDir(), "checkout")
	tree.URL = upstream
	require.NoError(t, tree.Bootstrap())

	at, err := tree.At()
	require.NoError(t, err)
	assert.Equal(t, rev, at)
}

func TestCheckoutReportsChanged(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	first := commitFile(t, repo, dir, "gtk3/PKGBUILD", "pkgname=gtk3", "add gtk3")
	commitFile(t, repo, dir, "glib2/PKGBUILD", "pkgname=glib2", "add glib2")

	tree := New(hclog.NewNullLogger())
	tree.Path = dir
	require.NoError(t, tree.Bootstrap())

	changed, err := tree.Checkout(first)
	require.NoError(t, err)
	assert.Equal(t, []string{"glib2/PKGBUILD"}, changed)

	at, err := tree.At()
	require.NoError(t, err)
	assert.Equal(t, first, at)

	// Moving to the revision already checked out changes nothing.
	changed, err = tree.Checkout(first)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestFetchUpToDate(t *testing.T) {
	upstream := t.TempDir()
	repo, err := git.PlainInit(upstream, false)
	require.NoError(t, err)
	commitFile(t, repo, upstream, "gtk3/PKGBUILD", "pkgname=gtk3", "add gtk3")

	tree := New(hclog.NewNullLogger())
	tree.Path = filepath.Join(t.TempDir(), "checkout")
	tree.URL = upstream
	require.NoError(t, tree.Bootstrap())

	// Nothing new upstream is not an error.
	require.NoError(t, tree.Fetch())
}
