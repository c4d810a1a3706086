package daos

import (
	"strconv"
	"strings"
)

// sqlBuilder accumulates SQL text and a positional parameter vector. It is
// the assembler's only mutable state.
type sqlBuilder struct {
	buf    strings.Builder
	params []any
}

func (b *sqlBuilder) writeString(s string) { b.buf.WriteString(s) }

// bind appends v to the parameter vector and returns its placeholder.
func (b *sqlBuilder) bind(v any) string {
	b.params = append(b.params, v)
	return "$" + strconv.Itoa(len(b.params))
}

func (b *sqlBuilder) String() string { return b.buf.String() }

// quoteIdent double-quotes a SQL identifier, doubling any internal quote.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral single-quotes a validated, non-parameterized SQL string
// literal. Used only for the FTS language tag and JSON path keys:
// PostgreSQL's text-search configuration argument and `->`/`->>`'s key
// argument must both be literals, not bound parameters.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// renderField renders a Field as a SQL expression: quoted name, JSON
// path steps, and an optional cast wrapping the whole expression.
func renderField(f Field) string {
	base := quoteIdent(f.Name)
	if len(f.JSONPath) == 0 {
		if f.Cast != "" {
			return base + "::" + f.Cast
		}
		return base
	}

	var expr strings.Builder
	expr.WriteString(base)
	for _, step := range f.JSONPath {
		switch step.Kind {
		case JSONArrow:
			expr.WriteString("->")
			expr.WriteString(quoteLiteral(step.Key))
		case JSONDoubleArrow:
			expr.WriteString("->>")
			expr.WriteString(quoteLiteral(step.Key))
		case JSONArrayIndex:
			expr.WriteString("->")
			expr.WriteString(strconv.Itoa(int(step.Index)))
		}
	}

	if f.Cast != "" {
		return "(" + expr.String() + ")::" + f.Cast
	}
	return expr.String()
}

// AssembleSQL is the SQL-assembly stage's entry point (component K): it
// turns a parsed Operation into a single parameterized SQL statement.
func AssembleSQL(op Operation, resolver RelationshipResolver) (string, []any, error) {
	if op.Table.Name == "" {
		return "", nil, newSqlErr(SqlEmptyTableName, "")
	}

	b := &sqlBuilder{}
	var err error

	switch op.Kind {
	case OpSelectKind:
		err = assembleSelect(b, op.Table, op.Select, resolver)
	case OpInsertKind:
		err = assembleInsert(b, op.Table, op.Insert, resolver)
	case OpUpdateKind:
		err = assembleUpdate(b, op.Table, op.Update, resolver)
	case OpDeleteKind:
		err = assembleDelete(b, op.Table, op.Delete, resolver)
	case OpRpcKind:
		err = assembleRpc(b, op.Table, op.Rpc, resolver)
	default:
		return "", nil, newSqlErr(SqlEmptyTableName, "unknown operation kind")
	}
	if err != nil {
		return "", nil, err
	}

	return b.String(), b.params, nil
}

// writeWhere renders the AND-joined WHERE clause for a flat list of
// top-level LogicConditions. Returns false if conditions is empty
// (no WHERE clause emitted).
func writeWhere(b *sqlBuilder, conditions []LogicCondition) (bool, error) {
	if len(conditions) == 0 {
		return false, nil
	}
	b.writeString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			b.writeString(" AND ")
		}
		if err := writeLogicCondition(b, c); err != nil {
			return false, err
		}
	}
	return true, nil
}

func writeLogicCondition(b *sqlBuilder, c LogicCondition) error {
	switch c.Kind {
	case LogicConditionFilter:
		return writeFilter(b, *c.Filter)
	case LogicConditionTree:
		return writeLogicTree(b, *c.Tree)
	default:
		return newSqlErr(SqlEmptyTableName, "malformed logic condition")
	}
}

func writeLogicTree(b *sqlBuilder, t LogicTree) error {
	if t.Negated {
		b.writeString("NOT ")
	}
	b.writeString("(")
	joiner := " AND "
	if t.Operator == LogicOr {
		joiner = " OR "
	}
	for i, cond := range t.Conditions {
		if i > 0 {
			b.writeString(joiner)
		}
		if err := writeLogicCondition(b, cond); err != nil {
			return err
		}
	}
	b.writeString(")")
	return nil
}

// writeOrder renders ORDER BY.
func writeOrder(b *sqlBuilder, terms []OrderTerm) {
	if len(terms) == 0 {
		return
	}
	b.writeString(" ORDER BY ")
	for i, t := range terms {
		if i > 0 {
			b.writeString(", ")
		}
		b.writeString(renderField(t.Field))
		if t.Direction == DirDesc {
			b.writeString(" DESC")
		} else {
			b.writeString(" ASC")
		}
		if t.Nulls != nil {
			if *t.Nulls == NullsFirst {
				b.writeString(" NULLS FIRST")
			} else {
				b.writeString(" NULLS LAST")
			}
		}
	}
}

// writeLimitOffset renders LIMIT/OFFSET.
func writeLimitOffset(b *sqlBuilder, limit, offset *int64) {
	if limit != nil {
		b.writeString(" LIMIT ")
		b.writeString(b.bind(*limit))
	}
	if offset != nil {
		b.writeString(" OFFSET ")
		b.writeString(b.bind(*offset))
	}
}

// checkMutationSafety enforces the mutation safety rules: filters
// non-empty, and if limit is present, order must be non-empty.
func checkMutationSafety(filters []LogicCondition, order []OrderTerm, limit *int64, emptyKind SqlErrorKind) error {
	if len(filters) == 0 {
		return newSqlErr(emptyKind, "")
	}
	if limit != nil && len(order) == 0 {
		return newSqlErr(SqlLimitWithoutOrder, "")
	}
	return nil
}
