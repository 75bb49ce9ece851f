// Package dialect provides SQL dialect configuration for the lexer, parser
// and dialect-gated lint rules.
//
// Dialects are assembled with a Builder from a core.DialectConfig and
// registered by name. The built-in set is registered at init time.
package dialect

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	castOperator bool
	distinctOn   bool
	bracketQuote bool

	// Dialect keywords: "QUALIFY" -> token registered for QUALIFY
	dynamicKw map[string]token.TokenType
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// SupportsCastOperator reports whether :: casts are lexed.
func (d *Dialect) SupportsCastOperator() bool { return d.castOperator }

// SupportsDistinctOn reports whether SELECT DISTINCT ON (...) is parsed.
func (d *Dialect) SupportsDistinctOn() bool { return d.distinctOn }

// IsIdentifierQuote reports whether c opens a quoted identifier and returns
// the closing character.
func (d *Dialect) IsIdentifierQuote(c byte) (byte, bool) {
	if len(d.Identifiers.Quote) == 1 && c == d.Identifiers.Quote[0] {
		return d.Identifiers.QuoteEnd[0], true
	}
	if c == '"' {
		return '"', true
	}
	if d.bracketQuote && c == '[' {
		return ']', true
	}
	return 0, false
}

// LookupKeyword returns the keyword token for a word, consulting the
// built-in keywords first and then the dialect's own.
func (d *Dialect) LookupKeyword(word string) (token.TokenType, bool) {
	lower := strings.ToLower(word)
	if t := token.LookupIdent(lower); t != token.IDENT {
		return t, true
	}
	if t, ok := d.dynamicKw[strings.ToUpper(word)]; ok {
		return t, true
	}
	return token.IDENT, false
}

// Keywords returns the dialect-specific keywords.
func (d *Dialect) Keywords() []string {
	kws := make([]string, 0, len(d.dynamicKw))
	for kw := range d.dynamicKw {
		kws = append(kws, kw)
	}
	return kws
}

// Builder assembles a Dialect from its configuration.
type Builder struct {
	d *Dialect
}

// New starts a builder from cfg. Feature flags in cfg are wired
// automatically: ILIKE and QUALIFY become keywords and :: becomes a cast.
func New(cfg *core.DialectConfig) *Builder {
	d := &Dialect{
		Name:         cfg.Name,
		Identifiers:  cfg.Identifiers,
		castOperator: cfg.SupportsCastOperator,
		distinctOn:   cfg.SupportsDistinctOn,
		bracketQuote: cfg.SupportsBracketQuote,
		dynamicKw:    make(map[string]token.TokenType),
	}
	if d.Identifiers.Quote == "" {
		d.Identifiers.Quote, d.Identifiers.QuoteEnd, d.Identifiers.Escape = `"`, `"`, `""`
	}
	b := &Builder{d: d}
	if cfg.SupportsIlike {
		b.WithKeywords("ILIKE")
	}
	if cfg.SupportsQualify {
		b.WithKeywords("QUALIFY")
	}
	return b.WithKeywords(cfg.Keywords...)
}

// WithKeywords registers dialect-specific keywords.
func (b *Builder) WithKeywords(words ...string) *Builder {
	for _, w := range words {
		upper := strings.ToUpper(w)
		b.d.dynamicKw[upper] = token.Register(upper)
	}
	return b
}

// Build returns the configured dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}
