package core

// DialectConfig is the pure-data description of a SQL dialect. The dialect
// package builds lexer and parser behaviour from it.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "ansi", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// Framework features, wired by the dialect builder
	SupportsCastOperator bool // :: operator
	SupportsDistinctOn   bool // SELECT DISTINCT ON (...)
	SupportsQualify      bool // QUALIFY clause keyword
	SupportsIlike        bool // ILIKE operator keyword
	SupportsBracketQuote bool // [identifier] quoting (T-SQL)

	// Extra keywords lexed as keywords rather than identifiers
	Keywords []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly.
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (BigQuery, Hive, DuckDB).
	NormCaseInsensitive
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `
	QuoteEnd      string                // End quote character (usually same as Quote)
	Escape        string                // Escape sequence: "", ``
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}
