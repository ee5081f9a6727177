package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildVersion(t *testing.T) {
	p := &Package{Version: "3.22.16", Release: "1"}
	assert.Equal(t, "3.22.16-1", p.BuildVersion())

	p.Epoch = "2"
	assert.Equal(t, "2~3.22.16-1", p.BuildVersion())
}

func TestNameIsVCS(t *testing.T) {
	assert.False(t, NameIsVCS("foo"))
	assert.True(t, NameIsVCS("foo-git"))
	assert.True(t, NameIsVCS("foo-svn"))
	assert.False(t, NameIsVCS("gitfoo"))
}

func TestPackageIdentity(t *testing.T) {
	// Equal fields, distinct records.
	a := &Package{Name: "foo", Version: "1", Release: "1"}
	b := &Package{Name: "foo", Version: "1", Release: "1"}
	assert.False(t, a == b)
}
