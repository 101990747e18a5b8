// Package config holds the typed input-normalization configuration: the
// per-table column defaults applied when user-provided CSV files omit
// optional columns. The config is validated once at load time; transforms
// never consult it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InputDefaults is the on-disk configuration shape (YAML).
type InputDefaults struct {
	Tables []TableDefaults `yaml:"tables"`
}

// TableDefaults declares the optional columns of one input table and the
// value each one takes when absent from the user file.
type TableDefaults struct {
	Name     string            `yaml:"name"`
	Defaults map[string]string `yaml:"defaults"`
}

// Load reads and validates the defaults configuration.
func Load(path string) (*InputDefaults, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %v", path, err)
	}

	var cfg InputDefaults
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects malformed configurations up front so a bad defaults file
// never reaches normalization.
func (c *InputDefaults) Validate() error {
	seen := make(map[string]bool, len(c.Tables))
	for i, table := range c.Tables {
		if table.Name == "" {
			return fmt.Errorf("config: tables[%d] has no name", i)
		}
		if seen[table.Name] {
			return fmt.Errorf("config: table %q declared twice", table.Name)
		}
		seen[table.Name] = true

		if len(table.Defaults) == 0 {
			return fmt.Errorf("config: table %q declares no defaults", table.Name)
		}
		for col := range table.Defaults {
			if col == "" {
				return fmt.Errorf("config: table %q has a default with an empty column name", table.Name)
			}
		}
	}
	return nil
}

// ForTable returns the defaults declared for the named table.
func (c *InputDefaults) ForTable(name string) (map[string]string, bool) {
	for _, table := range c.Tables {
		if table.Name == name {
			return table.Defaults, true
		}
	}
	return nil, false
}
