// Package local builds recipes by running the packaging tool on the
// local host, one build at a time.
package local

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mingw-builds/mbuild/pkg/builder"
	"github.com/mingw-builds/mbuild/pkg/types"
)

func init() {
	builder.RegisterInitCallback(cb)
}

func cb() {
	builder.RegisterFactory("local", New)
}

// Local drives makepkg directly.  A build has two phases: a source
// bundle first, then the binary packages, each logged separately to
// the output directory.
type Local struct {
	l hclog.Logger

	// SrcTool and PkgTool are the makepkg entry points for the two
	// phases.
	SrcTool string
	PkgTool string

	// MakepkgConf is handed to the source phase; the binary phase
	// carries its own configuration.
	MakepkgConf string
}

// New returns a local builder with the standard tool locations.
func New(l hclog.Logger) (builder.Builder, error) {
	x := Local{
		l:           l.Named("local"),
		SrcTool:     "/usr/bin/makepkg",
		PkgTool:     "/usr/bin/makepkg-mingw",
		MakepkgConf: "/etc/makepkg_mingw64.conf",
	}
	return &x, nil
}

// Build runs both phases for the recipe.  Artifacts collected before
// a failure are returned alongside the error so the executor can
// remove them.
func (c *Local) Build(recipePath string, pkgs []*types.Package, outputDir string) ([]string, error) {
	recipePath, err := filepath.Abs(recipePath)
	if err != nil {
		return nil, err
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, err
	}

	var results []string

	srcArtifacts, err := c.buildSource(recipePath, pkgs, outputDir)
	results = append(results, srcArtifacts...)
	if err != nil {
		return results, err
	}

	pkgArtifacts, err := c.buildBinary(recipePath, pkgs, outputDir)
	results = append(results, pkgArtifacts...)
	if err != nil {
		return results, err
	}
	return results, nil
}

// buildSource produces the source bundle for the recipe.
func (c *Local) buildSource(recipePath string, pkgs []*types.Package, outputDir string) ([]string, error) {
	cmd := exec.Command("bash", c.SrcTool,
		"--noconfirm", "--noprogressbar", "--skippgpcheck", "--allsource",
		"--config", c.MakepkgConf, "-f",
		"-p", filepath.Base(recipePath),
		"SRCPKGDEST="+outputDir)
	cmd.Dir = filepath.Dir(recipePath)

	output, err := cmd.CombinedOutput()
	c.writeLog(pkgs, outputDir, ".src.log", output)
	if err != nil {
		c.l.Warn("Source build failed", "recipe", recipePath, "error", err)
		return nil, &builder.BuildError{Recipe: recipePath, Output: output, Err: err}
	}
	return c.collect(pkgs, outputDir, ".src.", baseKeys(pkgs)), nil
}

// buildBinary produces and installs the binary packages, pulling in
// and removing build dependencies around the run.
func (c *Local) buildBinary(recipePath string, pkgs []*types.Package, outputDir string) ([]string, error) {
	cmd := exec.Command("bash", c.PkgTool,
		"--noconfirm", "--noprogressbar", "--skippgpcheck", "--nocheck",
		"--syncdeps", "--rmdeps", "--cleanbuild", "--install", "-f",
		"-p", filepath.Base(recipePath),
		"PKGDEST="+outputDir)
	cmd.Dir = filepath.Dir(recipePath)

	output, err := cmd.CombinedOutput()
	c.writeLog(pkgs, outputDir, ".pkg.log", output)
	if err != nil {
		c.l.Warn("Binary build failed", "recipe", recipePath, "error", err)
		return nil, &builder.BuildError{Recipe: recipePath, Output: output, Err: err}
	}
	return c.collect(pkgs, outputDir, ".pkg.", nameKeys(pkgs)), nil
}

// collect scans the output directory for entries matching any of the
// expected name-version keys and the phase marker.
func (c *Local) collect(pkgs []*types.Package, outputDir, phase string, keys []string) []string {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		c.l.Warn("Unable to scan output directory", "dir", outputDir, "error", err)
		return nil
	}

	var found []string
	for _, e := range entries {
		if !strings.Contains(e.Name(), phase) {
			continue
		}
		for _, key := range keys {
			if strings.Contains(e.Name(), key) {
				found = append(found, filepath.Join(outputDir, e.Name()))
				break
			}
		}
	}
	return found
}

// writeLog drops the full process output next to the artifacts, named
// by the group's base identity.
func (c *Local) writeLog(pkgs []*types.Package, outputDir, suffix string, output []byte) {
	if len(pkgs) == 0 {
		return
	}
	base := pkgs[0].Base
	for _, p := range pkgs {
		if p.Base < base {
			base = p.Base
		}
	}
	logPath := filepath.Join(outputDir, base+suffix)
	if err := os.WriteFile(logPath, output, 0644); err != nil {
		c.l.Warn("Unable to write build log", "path", logPath, "error", err)
	}
}

func baseKeys(pkgs []*types.Package) []string {
	keys := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		keys = append(keys, p.Base+"-"+p.BuildVersion())
	}
	return keys
}

func nameKeys(pkgs []*types.Package) []string {
	keys := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		keys = append(keys, p.Name+"-"+p.BuildVersion())
	}
	return keys
}
