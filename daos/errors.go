package daos

import "fmt"

// ParseErrorKind discriminates the malformed-syntax error family.
type ParseErrorKind string

const (
	ParseUnknownOperator         ParseErrorKind = "unknown_operator"
	ParseUnbalancedParens        ParseErrorKind = "unbalanced_parens"
	ParseEmptyCondition          ParseErrorKind = "empty_condition"
	ParseInvalidBody             ParseErrorKind = "invalid_body"
	ParseInvalidIdentifier       ParseErrorKind = "invalid_identifier"
	ParseUnsupportedMethod       ParseErrorKind = "unsupported_method"
	ParseInvalidQuantifier       ParseErrorKind = "invalid_quantifier_placement"
	ParseInvalidLanguage         ParseErrorKind = "invalid_language_placement"
	ParseReservedKeyMisuse       ParseErrorKind = "reserved_key_misuse"
	ParseInvalidJSONBody         ParseErrorKind = "invalid_json_body"
	ParseInvalidInteger          ParseErrorKind = "invalid_integer"
	ParseInvalidListValue        ParseErrorKind = "invalid_list_value"
	ParseInvalidIsValue          ParseErrorKind = "invalid_is_value"
	ParseWrapperNotParenthesized ParseErrorKind = "wrapper_not_parenthesized"
	ParseDoubleNegation          ParseErrorKind = "double_negation"
	ParseDepthExceeded           ParseErrorKind = "depth_exceeded"
	ParseInvalidSchemaPath       ParseErrorKind = "invalid_schema_path"
	ParseInvalidOnConflict       ParseErrorKind = "invalid_on_conflict"
)

// ParseError is a malformed-syntax failure detected anywhere in parsing.
// Parsing reports the first error found and never attempts recovery.
type ParseError struct {
	Kind   ParseErrorKind
	Detail string // the offending token or fragment
	Field  string // the key/field involved, when applicable
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse error (%s): %s: %q", e.Kind, e.Field, e.Detail)
	}
	return fmt.Sprintf("parse error (%s): %q", e.Kind, e.Detail)
}

func newParseErr(kind ParseErrorKind, field, detail string) *ParseError {
	return &ParseError{Kind: kind, Field: field, Detail: detail}
}

// SqlErrorKind discriminates the structural-but-unsafe error family.
type SqlErrorKind string

const (
	SqlEmptyTableName            SqlErrorKind = "empty_table_name"
	SqlUnsafeUpdate              SqlErrorKind = "unsafe_update"
	SqlUnsafeDelete              SqlErrorKind = "unsafe_delete"
	SqlLimitWithoutOrder         SqlErrorKind = "limit_without_order"
	SqlRelationNotFound          SqlErrorKind = "relation_not_found"
	SqlRelationAmbiguous         SqlErrorKind = "relation_ambiguous"
	SqlUnsupportedCardinality    SqlErrorKind = "unsupported_cardinality"
	SqlManyToManyNotYetSupported SqlErrorKind = "many_to_many_not_yet_supported"
	SqlNoValuesForInsert         SqlErrorKind = "no_values_for_insert"
	SqlNoSetForUpdate            SqlErrorKind = "no_set_for_update"
)

// SqlError is a structural failure the parser accepted but the assembler
// cannot safely emit as SQL: safety checks and schema-lookup failures.
type SqlError struct {
	Kind        SqlErrorKind
	SourceTable string
	TargetName  string
	Hint        string
	Detail      string
}

func (e *SqlError) Error() string {
	switch e.Kind {
	case SqlRelationNotFound, SqlRelationAmbiguous:
		if e.Hint != "" {
			return fmt.Sprintf("sql error (%s): %s -> %s (hint %q)", e.Kind, e.SourceTable, e.TargetName, e.Hint)
		}
		return fmt.Sprintf("sql error (%s): %s -> %s", e.Kind, e.SourceTable, e.TargetName)
	case SqlManyToManyNotYetSupported:
		return fmt.Sprintf("sql error (%s): junction %s", e.Kind, e.Detail)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("sql error (%s): %s", e.Kind, e.Detail)
		}
		return fmt.Sprintf("sql error (%s)", e.Kind)
	}
}

func newSqlErr(kind SqlErrorKind, detail string) *SqlError {
	return &SqlError{Kind: kind, Detail: detail}
}

func relationNotFoundErr(source, target, hint string) *SqlError {
	return &SqlError{Kind: SqlRelationNotFound, SourceTable: source, TargetName: target, Hint: hint}
}

func relationAmbiguousErr(source, target, hint string) *SqlError {
	return &SqlError{Kind: SqlRelationAmbiguous, SourceTable: source, TargetName: target, Hint: hint}
}

func manyToManyNotYetSupportedErr(junction string) *SqlError {
	return &SqlError{Kind: SqlManyToManyNotYetSupported, Detail: junction}
}
