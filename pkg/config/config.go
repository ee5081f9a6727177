package config

import (
	"encoding/json"
	"os"
)

// NewConfig returns a config object with default structures
// initialized.  The config can be loaded from other sources to
// override the defaults.
func NewConfig() *Config {
	return &Config{
		RecipeRoot: ".",
		OutputDir:  "output",
		Builder:    "local",
		Storage:    "bitcask",
	}
}

// LoadFromFile does as the name suggests, and loads the config from a
// file.
func (c *Config) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	return dec.Decode(c)
}
