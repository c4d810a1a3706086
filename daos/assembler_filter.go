package daos

import (
	"strconv"
	"strings"
)

// normalizeScalar promotes a textual filter value to a number (integer
// then float) when it parses cleanly, else keeps it as text.
func normalizeScalar(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func normalizeList(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = normalizeScalar(s)
	}
	return out
}

// writeFilter renders one Filter leaf per the operator mapping table.
func writeFilter(b *sqlBuilder, f Filter) error {
	field := renderField(f.Field)

	switch f.Operator {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		return writeComparison(b, field, f)
	case OpLike, OpIlike:
		return writePatternMatch(b, field, f)
	case OpMatch, OpImatch:
		return writeRegexMatch(b, field, f)
	case OpIn:
		return writeIn(b, field, f)
	case OpIs:
		return writeIs(b, field, f)
	case OpFts, OpPlfts, OpPhfts, OpWfts:
		return writeFts(b, field, f)
	case OpCs, OpCd:
		return writeContainment(b, field, f)
	case OpOv:
		return writeOverlap(b, field, f)
	case OpSl, OpSr, OpNxl, OpNxr, OpAdj:
		return writeRangeOp(b, field, f)
	default:
		return newParseErr(ParseUnknownOperator, f.Field.Name, string(f.Operator))
	}
}

// comparisonOps maps each comparison operator to its positive SQL symbol
// and the flipped symbol used under negation.
var comparisonOps = map[FilterOperator][2]string{
	OpEq:  {"=", "<>"},
	OpNeq: {"<>", "="},
	OpGt:  {">", "<="},
	OpGte: {">=", "<"},
	OpLt:  {"<", ">="},
	OpLte: {"<=", ">"},
}

// flipQuantifier swaps ANY and ALL. A negated quantified filter flips
// both the operator and the quantifier so the pair stays an exact
// negation: NOT (x = ANY(list)) is x <> ALL(list).
func flipQuantifier(q Quantifier) Quantifier {
	if q == QuantifierAny {
		return QuantifierAll
	}
	return QuantifierAny
}

func writeQuantified(b *sqlBuilder, f Filter) {
	quant := *f.Quantifier
	if f.Negated {
		quant = flipQuantifier(quant)
	}
	b.writeString(strings.ToUpper(string(quant)))
	b.writeString("(")
	b.writeString(b.bind(normalizeList(f.Value.List)))
	b.writeString(")")
}

func writeComparison(b *sqlBuilder, field string, f Filter) error {
	pair := comparisonOps[f.Operator]
	op := pair[0]
	if f.Negated {
		op = pair[1]
	}

	b.writeString(field)
	b.writeString(" ")
	b.writeString(op)
	b.writeString(" ")

	if f.Quantifier != nil {
		writeQuantified(b, f)
		return nil
	}

	// Single values are bound as text; Postgres coerces against the column
	// type (or the field's cast). Only list elements are number-promoted.
	b.writeString(b.bind(f.Value.Single))
	return nil
}

func writePatternMatch(b *sqlBuilder, field string, f Filter) error {
	op := "LIKE"
	if f.Operator == OpIlike {
		op = "ILIKE"
	}

	b.writeString(field)
	b.writeString(" ")
	if f.Negated {
		b.writeString("NOT ")
	}
	b.writeString(op)
	b.writeString(" ")

	if f.Quantifier != nil {
		b.writeString(strings.ToUpper(string(*f.Quantifier)))
		b.writeString("(")
		b.writeString(b.bind(normalizeList(f.Value.List)))
		b.writeString(")")
		return nil
	}
	b.writeString(b.bind(f.Value.Single))
	return nil
}

func writeRegexMatch(b *sqlBuilder, field string, f Filter) error {
	op := "~"
	if f.Operator == OpImatch {
		op = "~*"
	}
	if f.Negated {
		op = "!" + op
	}

	b.writeString(field)
	b.writeString(" ")
	b.writeString(op)
	b.writeString(" ")

	if f.Quantifier != nil {
		writeQuantified(b, f)
		return nil
	}
	b.writeString(b.bind(f.Value.Single))
	return nil
}

func writeIn(b *sqlBuilder, field string, f Filter) error {
	if f.Negated {
		b.writeString("NOT ")
	}
	b.writeString(field)
	b.writeString(" = ANY(")
	b.writeString(b.bind(normalizeList(f.Value.List)))
	b.writeString(")")
	return nil
}

func writeIs(b *sqlBuilder, field string, f Filter) error {
	pos := "IS NULL"
	switch f.Value.Single {
	case "null":
		pos = "IS NULL"
	case "not_null":
		pos = "IS NOT NULL"
	case "true":
		pos = "IS TRUE"
	case "false":
		pos = "IS FALSE"
	case "unknown":
		pos = "IS UNKNOWN"
	}

	rendered := pos
	if f.Negated {
		rendered = invertIsClause(pos)
	}

	b.writeString(field)
	b.writeString(" ")
	b.writeString(rendered)
	return nil
}

// invertIsClause inverts a positive "IS ..." clause by toggling the "NOT"
// token.
func invertIsClause(clause string) string {
	switch clause {
	case "IS NULL":
		return "IS NOT NULL"
	case "IS NOT NULL":
		return "IS NULL"
	case "IS TRUE":
		return "IS NOT TRUE"
	case "IS FALSE":
		return "IS NOT FALSE"
	case "IS UNKNOWN":
		return "IS NOT UNKNOWN"
	default:
		return clause
	}
}

func writeFts(b *sqlBuilder, field string, f Filter) error {
	lang := DefaultFTSLanguage
	if f.Language != nil {
		lang = *f.Language
	}
	if !isIdentifier(lang) {
		return newParseErr(ParseInvalidIdentifier, f.Field.Name, lang)
	}

	tsFunc := "plainto_tsquery"
	switch f.Operator {
	case OpFts, OpPlfts:
		tsFunc = "plainto_tsquery"
	case OpPhfts:
		tsFunc = "phraseto_tsquery"
	case OpWfts:
		tsFunc = "websearch_to_tsquery"
	}

	if f.Negated {
		b.writeString("NOT ")
	}
	b.writeString("to_tsvector(")
	b.writeString(quoteLiteral(lang))
	b.writeString(", ")
	b.writeString(field)
	b.writeString(") @@ ")
	b.writeString(tsFunc)
	b.writeString("(")
	b.writeString(quoteLiteral(lang))
	b.writeString(", ")
	b.writeString(b.bind(f.Value.Single))
	b.writeString(")")
	return nil
}

func writeContainment(b *sqlBuilder, field string, f Filter) error {
	op := "@>"
	if f.Operator == OpCd {
		op = "<@"
	}
	if f.Negated {
		b.writeString("NOT ")
	}
	b.writeString(field)
	b.writeString(" ")
	b.writeString(op)
	b.writeString(" ")
	b.writeString(b.bind(f.Value.Single))
	return nil
}

func writeOverlap(b *sqlBuilder, field string, f Filter) error {
	if f.Negated {
		b.writeString("NOT ")
	}
	b.writeString(field)
	b.writeString(" && ")
	b.writeString(b.bind(normalizeList(f.Value.List)))
	return nil
}

var rangeOps = map[FilterOperator]string{
	OpSl:  "<<",
	OpSr:  ">>",
	OpNxl: "&<",
	OpNxr: "&>",
	OpAdj: "-|-",
}

func writeRangeOp(b *sqlBuilder, field string, f Filter) error {
	op := rangeOps[f.Operator]
	if f.Negated {
		b.writeString("NOT ")
	}
	b.writeString(field)
	b.writeString(" ")
	b.writeString(op)
	b.writeString(" ")
	b.writeString(b.bind(f.Value.Single))
	return nil
}
