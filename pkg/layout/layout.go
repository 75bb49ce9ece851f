// Package layout holds the spacing policy shared by the linter and the
// reflow engine.
package layout

import (
	"fmt"
	"maps"
)

// Spacing is the whitespace expected on one side of a segment type.
type Spacing string

// Spacing values.
const (
	// Single means exactly one space.
	Single Spacing = "single"
	// Touch means no whitespace at all.
	Touch Spacing = "touch"
	// Any means whatever is there is acceptable.
	Any Spacing = "any"
)

// ParseSpacing validates a spacing value.
func ParseSpacing(s string) (Spacing, error) {
	switch Spacing(s) {
	case Single, Touch, Any:
		return Spacing(s), nil
	}
	return "", fmt.Errorf("invalid spacing %q (want single, touch or any)", s)
}

// TypeSpacing is the policy for one segment type. Empty fields are unset.
type TypeSpacing struct {
	Before Spacing `koanf:"spacing_before" yaml:"spacing_before,omitempty" mapstructure:"spacing_before"`
	After  Spacing `koanf:"spacing_after" yaml:"spacing_after,omitempty" mapstructure:"spacing_after"`
}

// Config maps segment types to their spacing policy.
type Config map[string]TypeSpacing

// Default returns the built-in spacing policy.
func Default() Config {
	return Config{
		"comma":                {Before: Touch},
		"start_bracket":        {After: Touch},
		"end_bracket":          {Before: Touch},
		"dot":                  {Before: Touch, After: Touch},
		"casting_operator":     {Before: Touch, After: Touch},
		"function_name":        {After: Touch},
		"statement_terminator": {Before: Touch},
		"sign_indicator":       {After: Touch},
	}
}

// Merge returns a copy of c with overrides applied field by field.
func (c Config) Merge(overrides Config) Config {
	out := maps.Clone(c)
	if out == nil {
		out = Config{}
	}
	for typ, o := range overrides {
		cur := out[typ]
		if o.Before != "" {
			cur.Before = o.Before
		}
		if o.After != "" {
			cur.After = o.After
		}
		out[typ] = cur
	}
	return out
}

// Validate checks every spacing value.
func (c Config) Validate() error {
	for typ, ts := range c {
		for _, s := range []Spacing{ts.Before, ts.After} {
			if s == "" {
				continue
			}
			if _, err := ParseSpacing(string(s)); err != nil {
				return fmt.Errorf("layout %s: %w", typ, err)
			}
		}
	}
	return nil
}

// After returns the spacing required after a segment carrying the given
// types, checked in order. Unconfigured types default to Single.
func (c Config) After(types ...string) Spacing {
	for _, t := range types {
		if ts, ok := c[t]; ok && ts.After != "" {
			return ts.After
		}
	}
	return Single
}

// Before returns the spacing required before a segment carrying the given
// types, checked in order. Unconfigured types default to Single.
func (c Config) Before(types ...string) Spacing {
	for _, t := range types {
		if ts, ok := c[t]; ok && ts.Before != "" {
			return ts.Before
		}
	}
	return Single
}

// Resolve combines the two sides of a boundary: touch wins over any, which
// wins over single.
func Resolve(after, before Spacing) Spacing {
	switch {
	case after == Touch || before == Touch:
		return Touch
	case after == Any || before == Any:
		return Any
	default:
		return Single
	}
}
