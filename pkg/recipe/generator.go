package recipe

import (
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// A Generator produces srcinfo text for a recipe file.  The real one
// shells out; tests substitute their own.
type Generator interface {
	SrcInfo(recipePath string) (string, error)
}

// CmdGenerator dumps srcinfo by running the packaging tool's
// printsrcinfo mode in the recipe's directory.
type CmdGenerator struct {
	l hclog.Logger

	// Tool is the path of the makepkg wrapper to invoke.
	Tool string
}

// NewCmdGenerator returns a generator using the standard tool
// location.
func NewCmdGenerator(l hclog.Logger) *CmdGenerator {
	return &CmdGenerator{
		l:    l.Named("srcinfo"),
		Tool: "/usr/bin/makepkg-mingw",
	}
}

// SrcInfo runs the external dump.  On a non-zero exit the combined
// process output rides along in the error for the caller to log.
func (g *CmdGenerator) SrcInfo(recipePath string) (string, error) {
	abs, err := filepath.Abs(recipePath)
	if err != nil {
		return "", err
	}

	cmd := exec.Command("bash", g.Tool, "--printsrcinfo", "-p", filepath.Base(abs))
	cmd.Dir = filepath.Dir(abs)
	out, err := cmd.Output()
	if err != nil {
		g.l.Warn("srcinfo dump failed", "recipe", recipePath, "error", err)
		return "", err
	}
	return string(out), nil
}
