package config

// Config represents the complete application configuration that
// mbuild supports.
type Config struct {
	// RecipeRoot is a recipe file or the root of a tree to search.
	RecipeRoot string

	// OutputDir receives artifacts, build logs, and failure
	// markers.
	OutputDir string

	// Builder names the registered builder backend to use.
	Builder string

	// Storage names the registered store backing the srcinfo cache.
	Storage string

	// Parallelism bounds the recipe parsing worker pool; zero means
	// one worker per CPU.
	Parallelism int

	// SyncDBs maps repository names to sync database locations.
	// When empty the local package manager is queried instead.
	SyncDBs map[string]string

	// TreeURL, when set, is the git remote the recipe tree is
	// cloned from.
	TreeURL string
}
