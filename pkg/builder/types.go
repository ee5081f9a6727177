// Package builder defines the interface to the external program that
// actually builds a recipe, and the registry that the concrete
// backends register themselves into.
package builder

import (
	"github.com/mingw-builds/mbuild/pkg/types"
)

// A Builder runs one recipe build and reports the artifacts it
// produced.  Builds for a recipe are invoked at most once per run;
// the executor owns retry and skip policy, not the builder.
type Builder interface {
	// Build builds the recipe at recipePath, expected to yield the
	// given packages, placing artifacts under outputDir.  On
	// failure the returned error is a *BuildError; any artifact
	// paths produced before the failure are still returned so the
	// caller can clean them up.
	Build(recipePath string, pkgs []*types.Package, outputDir string) ([]string, error)
}
