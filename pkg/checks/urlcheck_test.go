package checks

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mingw-builds/mbuild/pkg/types"
)

func TestSourceURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a.tar.gz", SourceURL("https://example.com/a.tar.gz"))
	assert.Equal(t, "http://example.com/a.tar.gz", SourceURL("renamed.tar.gz::http://example.com/a.tar.gz"))
	assert.Equal(t, "", SourceURL("local.patch"))
	assert.Equal(t, "", SourceURL("git+https://example.com/repo.git"))
}

func TestURLCheckerCheck(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if r.URL.Path == "/gone.tar.gz" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pkgs := []*types.Package{
		{
			Name:   "a",
			Origin: "a/PKGBUILD",
			Sources: []string{
				srv.URL + "/ok.tar.gz",
				srv.URL + "/gone.tar.gz",
				"local.patch",
			},
		},
		{
			Name:   "b",
			Origin: "b/PKGBUILD",
			// Shared with a; must only be fetched once.
			Sources: []string{srv.URL + "/gone.tar.gz"},
		},
	}

	broken := NewURLChecker(hclog.NewNullLogger()).Check(pkgs)
	require.Len(t, broken, 1)
	assert.Equal(t, srv.URL+"/gone.tar.gz", broken[0].URL)
	assert.Equal(t, []string{"a/PKGBUILD", "b/PKGBUILD"}, broken[0].Recipes)
	assert.Contains(t, broken[0].Error, "404")

	// One probe per distinct URL, and none for the local patch.
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestURLCheckerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // reject all connections

	pkgs := []*types.Package{
		{Name: "a", Origin: "a/PKGBUILD", Sources: []string{srv.URL + "/a.tar.gz"}},
	}

	broken := NewURLChecker(hclog.NewNullLogger()).Check(pkgs)
	require.Len(t, broken, 1)
	assert.NotEmpty(t, broken[0].Error)
}
