package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objdumpOutput = `
mingw.exe:     file format pei-x86-64

Characteristics 0x22

The Import Tables (interpreted .idata section contents)

	DLL Name: KERNEL32.dll
	vma:  Hint/Ord Member-Name Bound-To

	DLL Name: libglib-2.0-0.dll
	vma:  Hint/Ord Member-Name Bound-To
`

func TestParseObjdumpDeps(t *testing.T) {
	deps := ParseObjdumpDeps(objdumpOutput)
	assert.Equal(t, []string{"KERNEL32.dll", "libglib-2.0-0.dll"}, deps)
}

func TestParseObjdumpDepsEmpty(t *testing.T) {
	assert.Empty(t, ParseObjdumpDeps("no import table here"))
}

func TestResolvable(t *testing.T) {
	root := t.TempDir()
	sys := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "libglib-2.0-0.dll"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sys, "KERNEL32.dll"), nil, 0644))

	d := NewDLLChecker(hclog.NewNullLogger())
	d.SystemDir = sys

	assert.True(t, d.resolvable(root, "libglib-2.0-0.dll"))
	assert.True(t, d.resolvable(root, "KERNEL32.dll"))
	assert.False(t, d.resolvable(root, "libmissing-1.dll"))

	// Side-by-side assemblies resolve outside the filesystem.
	assert.True(t, d.resolvable(root, "GdiPlus.dll"))
	assert.True(t, d.resolvable(root, "MSVCR90.dll"))
}

func TestCheckMissingBinDir(t *testing.T) {
	d := NewDLLChecker(hclog.NewNullLogger())
	_, err := d.Check(filepath.Join(t.TempDir(), "nothere"))
	assert.Error(t, err)
}
