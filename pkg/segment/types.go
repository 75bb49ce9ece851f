package segment

// Type tags produced by the parser. The vocabulary is open: rules match on
// strings and dialects may introduce their own tags.
const (
	TypeFile            = "file"
	TypeStatement       = "statement"
	TypeSelectStatement = "select_statement"
	TypeSetExpression   = "set_expression"
	TypeWithClause      = "with_compound_statement"
	TypeCommonTable     = "common_table_expression"
	TypeUpdateStatement = "update_statement"
	TypeDeleteStatement = "delete_statement"

	TypeSelectClause         = "select_clause"
	TypeSelectClauseModifier = "select_clause_modifier"
	TypeSelectClauseElement  = "select_clause_element"
	TypeFromClause           = "from_clause"
	TypeFromExpression       = "from_expression"
	TypeFromExpressionElem   = "from_expression_element"
	TypeTableExpression      = "table_expression"
	TypeTableReference       = "table_reference"
	TypeObjectReference      = "object_reference"
	TypeJoinClause           = "join_clause"
	TypeJoinOnCondition      = "join_on_condition"
	TypeWhereClause          = "where_clause"
	TypeGroupByClause        = "groupby_clause"
	TypeHavingClause         = "having_clause"
	TypeOrderByClause        = "orderby_clause"
	TypeLimitClause          = "limit_clause"
	TypeSetClauseList        = "set_clause_list"
	TypeSetClause            = "set_clause"
	TypeSetOperator          = "set_operator"

	TypeExpression         = "expression"
	TypeColumnReference    = "column_reference"
	TypeAliasExpression    = "alias_expression"
	TypeWildcardExpression = "wildcard_expression"
	TypeWildcardIdentifier = "wildcard_identifier"
	TypeFunction           = "function"
	TypeFunctionName       = "function_name"
	TypeBracketed          = "bracketed"
	TypeCaseExpression     = "case_expression"
	TypeComparisonOperator = "comparison_operator"
	TypeBinaryOperator     = "binary_operator"
	TypeCastExpression     = "cast_expression"

	TypeKeyword                = "keyword"
	TypeIdentifier             = "identifier"
	TypeNakedIdentifier        = "naked_identifier"
	TypeQuotedIdentifier       = "quoted_identifier"
	TypeLiteral                = "literal"
	TypeNullLiteral            = "null_literal"
	TypeBooleanLiteral         = "boolean_literal"
	TypeNumericLiteral         = "numeric_literal"
	TypeQuotedLiteral          = "quoted_literal"
	TypeRawComparisonOperator  = "raw_comparison_operator"
	TypeStar                   = "star"
	TypeComma                  = "comma"
	TypeDot                    = "dot"
	TypeStartBracket           = "start_bracket"
	TypeEndBracket             = "end_bracket"
	TypeCastingOperator        = "casting_operator"
	TypeStatementTerminator    = "statement_terminator"
	TypeSymbol                 = "symbol"
	TypeUnparsable             = "unparsable"

	TypeWhitespace    = "whitespace"
	TypeNewline       = "newline"
	TypeComment       = "comment"
	TypeInlineComment = "inline_comment"
	TypeBlockComment  = "block_comment"
	TypeIndent        = "indent"
	TypeDedent        = "dedent"
	TypeEndOfFile     = "end_of_file"
)

// nonCodeTypes are the primary types that never count as code.
var nonCodeTypes = map[string]bool{
	TypeWhitespace:    true,
	TypeNewline:       true,
	TypeComment:       true,
	TypeInlineComment: true,
	TypeBlockComment:  true,
	TypeIndent:        true,
	TypeDedent:        true,
	TypeEndOfFile:     true,
}

var metaTypes = map[string]bool{
	TypeIndent:    true,
	TypeDedent:    true,
	TypeEndOfFile: true,
}
