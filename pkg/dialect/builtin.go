package dialect

import "github.com/leapstack-labs/leaplint/pkg/core"

var backtick = core.IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "``"}

var builtinConfigs = []*core.DialectConfig{
	{
		Name: "ansi",
	},
	{
		Name:                 "postgres",
		SupportsCastOperator: true,
		SupportsDistinctOn:   true,
		SupportsIlike:        true,
		Keywords:             []string{"RETURNING"},
	},
	{
		Name:        "mysql",
		Identifiers: core.IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "``", Normalization: core.NormCaseSensitive},
	},
	{
		Name:            "bigquery",
		Identifiers:     core.IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "``", Normalization: core.NormCaseInsensitive},
		SupportsQualify: true,
	},
	{
		Name:        "hive",
		Identifiers: backtick,
	},
	{
		Name:                 "redshift",
		SupportsCastOperator: true,
		SupportsIlike:        true,
		SupportsQualify:      true,
	},
	{
		Name:                 "duckdb",
		Identifiers:          core.IdentifierConfig{Normalization: core.NormCaseInsensitive},
		SupportsCastOperator: true,
		SupportsDistinctOn:   true,
		SupportsIlike:        true,
		SupportsQualify:      true,
	},
	{
		Name:                 "snowflake",
		Identifiers:          core.IdentifierConfig{Quote: `"`, QuoteEnd: `"`, Escape: `""`, Normalization: core.NormUppercase},
		SupportsCastOperator: true,
		SupportsIlike:        true,
		SupportsQualify:      true,
	},
	{
		Name:                 "tsql",
		SupportsBracketQuote: true,
		Keywords:             []string{"TOP"},
	},
}

func init() {
	for _, cfg := range builtinConfigs {
		Register(New(cfg).Build())
	}
}
