package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

var validOutputs = map[string]bool{
	"auto": true, "text": true, "markdown": true, "md": true, "json": true, "yaml": true,
}

// Validate checks the configuration. Rule options are not checked here;
// each rule validates its own when the linter is built.
func (c *Config) Validate() error {
	var errs []error

	if _, err := dialect.Lookup(c.Dialect); err != nil {
		errs = append(errs, err)
	}
	if c.MaxLoops < 1 {
		errs = append(errs, fmt.Errorf("max_loops must be at least 1, got %d", c.MaxLoops))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.OutputFormat != "" && !validOutputs[strings.ToLower(c.OutputFormat)] {
		errs = append(errs, fmt.Errorf("unknown output format %q", c.OutputFormat))
	}
	for id, sev := range c.Severity {
		if _, ok := lint.ParseSeverity(sev); !ok {
			errs = append(errs, fmt.Errorf("severity for %s: unknown level %q (want error, warning, info or hint)", id, sev))
		}
	}
	if len(c.Layout) > 0 {
		if err := c.Layout.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
