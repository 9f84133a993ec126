package am

import (
	"strings"

	"github.com/teranos/xraydb/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Empty database path falls back to DefaultDatabasePath; whitespace-only is a mistake
	if c.Database.Path != "" && strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path cannot be blank")
	}

	// Chantler element count: 0 = default, otherwise 1..92 (files 01..92 exist)
	if c.Sources.ChantlerElements < 0 || c.Sources.ChantlerElements > DefaultChantlerElements {
		return errors.Newf("sources.chantler_elements must be between 1 and %d, got %d",
			DefaultChantlerElements, c.Sources.ChantlerElements)
	}

	// Workers: 0 = default, negative = invalid
	if c.Build.Workers < 0 {
		return errors.Newf("build.workers must be >= 0, got %d", c.Build.Workers)
	}

	return nil
}
