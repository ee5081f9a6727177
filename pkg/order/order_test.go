package order

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mingw-builds/mbuild/pkg/index"
	"github.com/mingw-builds/mbuild/pkg/types"
)

func mkpkg(name, origin string, depends []string) *types.Package {
	return &types.Package{
		Name:    name,
		Base:    name,
		Version: "1",
		Release: "1",
		Depends: depends,
		Origin:  origin,
	}
}

func resolve(pkgs ...*types.Package) []Group {
	idx := index.New(hclog.NewNullLogger())
	idx.AddAll(pkgs)
	return Resolve(hclog.NewNullLogger(), idx, pkgs)
}

func paths(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Path
	}
	return out
}

func TestResolveDependencyBeforeDependent(t *testing.T) {
	a := mkpkg("pkga", "g1/PKGBUILD", nil)
	b := mkpkg("pkgb", "g2/PKGBUILD", []string{"pkga"})

	groups := resolve(a, b)
	assert.Equal(t, []string{"g1/PKGBUILD", "g2/PKGBUILD"}, paths(groups))

	// Same result regardless of input order.
	groups = resolve(b, a)
	assert.Equal(t, []string{"g1/PKGBUILD", "g2/PKGBUILD"}, paths(groups))
}

func TestResolveChain(t *testing.T) {
	a := mkpkg("a", "a/PKGBUILD", []string{"b"})
	b := mkpkg("b", "b/PKGBUILD", []string{"c"})
	c := mkpkg("c", "c/PKGBUILD", nil)

	groups := resolve(a, b, c)
	assert.Equal(t, []string{"c/PKGBUILD", "b/PKGBUILD", "a/PKGBUILD"}, paths(groups))
}

func TestResolveCycleDeterministic(t *testing.T) {
	a := mkpkg("pkga", "g1/PKGBUILD", []string{"pkgb"})
	b := mkpkg("pkgb", "g2/PKGBUILD", []string{"pkga"})

	first := resolve(a, b)
	require.Len(t, first, 2)

	// Rerunning, in either input order, yields the same sequence.
	for i := 0; i < 5; i++ {
		assert.Equal(t, paths(first), paths(resolve(a, b)))
		assert.Equal(t, paths(first), paths(resolve(b, a)))
	}
}

func TestResolveUnrelatedOrderedByKey(t *testing.T) {
	// No dependency relation; fewer deps first, then name.
	a := mkpkg("aa", "aa/PKGBUILD", []string{"dep1", "dep2"})
	b := mkpkg("bb", "bb/PKGBUILD", nil)
	d1 := mkpkg("dep1", "dep1/PKGBUILD", nil)
	d2 := mkpkg("dep2", "dep2/PKGBUILD", nil)

	groups := resolve(a, b, d1, d2)
	assert.Equal(t, []string{"bb/PKGBUILD", "dep1/PKGBUILD", "dep2/PKGBUILD", "aa/PKGBUILD"}, paths(groups))
}

func TestResolveIdempotent(t *testing.T) {
	a := mkpkg("a", "a/PKGBUILD", []string{"b"})
	b := mkpkg("b", "b/PKGBUILD", nil)
	c := mkpkg("c", "c/PKGBUILD", []string{"a"})

	idx := index.New(hclog.NewNullLogger())
	idx.AddAll([]*types.Package{a, b, c})

	once := Resolve(hclog.NewNullLogger(), idx, []*types.Package{a, b, c})
	twice := Resolve(hclog.NewNullLogger(), idx, []*types.Package{a, b, c})
	assert.Equal(t, paths(once), paths(twice))
	assert.Equal(t, []string{"b/PKGBUILD", "a/PKGBUILD", "c/PKGBUILD"}, paths(once))
}

func TestResolveMultiPackageGroup(t *testing.T) {
	// Two packages from one recipe schedule as one group.
	x64 := mkpkg("mingw-w64-x86_64-gtk3", "gtk3/PKGBUILD", []string{"mingw-w64-x86_64-glib2"})
	i686 := mkpkg("mingw-w64-i686-gtk3", "gtk3/PKGBUILD", []string{"mingw-w64-i686-glib2"})
	x64.Base = "mingw-w64-gtk3"
	i686.Base = "mingw-w64-gtk3"
	glibX64 := mkpkg("mingw-w64-x86_64-glib2", "glib2/PKGBUILD", nil)
	glibI686 := mkpkg("mingw-w64-i686-glib2", "glib2/PKGBUILD", nil)

	groups := resolve(x64, i686, glibX64, glibI686)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"glib2/PKGBUILD", "gtk3/PKGBUILD"}, paths(groups))
	assert.Equal(t, "mingw-w64-gtk3", Group{Pkgs: []*types.Package{x64, i686}, Path: "gtk3/PKGBUILD"}.Base())
}

func TestGroupNames(t *testing.T) {
	g := Group{Pkgs: []*types.Package{
		mkpkg("zeta", "x/PKGBUILD", nil),
		mkpkg("alpha", "x/PKGBUILD", nil),
	}}
	assert.Equal(t, []string{"alpha", "zeta"}, g.Names())
}
