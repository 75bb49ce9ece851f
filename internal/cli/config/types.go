// Package config provides configuration management for the leaplint CLI.
//
// Values are layered with koanf: built-in defaults, then the project file
// (leaplint.yaml), then LEAPLINT_* environment variables, then flags that
// were set explicitly on the command line.
package config

import (
	"github.com/leapstack-labs/leaplint/pkg/layout"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect      string                    `koanf:"dialect" json:"dialect"`
	MaxLoops     int                       `koanf:"max_loops" json:"max_loops"`
	Rules        []string                  `koanf:"rules" json:"rules"`
	Disabled     []string                  `koanf:"disabled" json:"disabled"`
	Severity     map[string]string         `koanf:"severity" json:"severity"`
	Options      map[string]map[string]any `koanf:"options" json:"options"`
	Layout       layout.Config             `koanf:"layout" json:"layout"`
	OutputFormat string                    `koanf:"output" json:"-"`
	Verbose      bool                      `koanf:"verbose" json:"-"`
	Cache        string                    `koanf:"cache" json:"-"`
	Concurrency  int                       `koanf:"concurrency" json:"-"`
	DocsURL      string                    `koanf:"docs_url" json:"-"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none.
	ProjectRoot string `koanf:"-" json:"-"`
}

// Default configuration values.
const (
	DefaultDialect   = "ansi"
	DefaultMaxLoops  = 10
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultCacheFile = ".leaplint/cache.db"
)

// ConfigFileNames are searched in order in each directory.
var ConfigFileNames = []string{"leaplint.yaml", "leaplint.yml", ".leaplint.yaml", ".leaplint.yml"}
