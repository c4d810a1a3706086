package daos

// assembleInsert emits `INSERT INTO ... (columns) VALUES ...` with the
// column list either explicit or the sorted union of the row keys, NULL
// substituted for missing keys, plus optional ON CONFLICT and RETURNING.
func assembleInsert(b *sqlBuilder, table ResolvedTable, p *InsertParams, resolver RelationshipResolver) error {
	if p.Values.IsEmpty() {
		return newSqlErr(SqlNoValuesForInsert, "")
	}

	columns := p.Columns
	if len(columns) == 0 {
		columns = p.Values.Columns()
	}

	b.writeString("INSERT INTO ")
	b.writeString(table.QualifiedName())
	b.writeString(" (")
	for i, c := range columns {
		if i > 0 {
			b.writeString(", ")
		}
		b.writeString(quoteIdent(c))
	}
	b.writeString(") VALUES ")

	rows := p.Values.Rows()
	for r, row := range rows {
		if r > 0 {
			b.writeString(", ")
		}
		b.writeString("(")
		for i, c := range columns {
			if i > 0 {
				b.writeString(", ")
			}
			v, ok := row[c]
			if !ok || v == nil {
				b.writeString("NULL")
				continue
			}
			b.writeString(b.bind(v))
		}
		b.writeString(")")
	}

	if p.OnConflict != nil {
		if err := writeOnConflict(b, p.OnConflict, columns); err != nil {
			return err
		}
	}

	writeReturning(b, p.Returning)
	return nil
}

// writeOnConflict emits the ON CONFLICT clause. When update_columns is
// absent, the SET list is derived from the values' columns minus the
// conflict columns, never from the conflict columns themselves.
func writeOnConflict(b *sqlBuilder, oc *OnConflict, insertColumns []string) error {
	b.writeString(" ON CONFLICT (")
	for i, c := range oc.Columns {
		if i > 0 {
			b.writeString(", ")
		}
		b.writeString(quoteIdent(c))
	}
	b.writeString(")")

	if _, err := writeWhere(b, oc.WhereClause); err != nil {
		return err
	}

	switch oc.Action {
	case DoNothing:
		b.writeString(" DO NOTHING")
		return nil
	case DoUpdate:
		updateCols := oc.UpdateColumns
		if len(updateCols) == 0 {
			updateCols = columnsExcluding(insertColumns, oc.Columns)
		}
		if len(updateCols) == 0 {
			b.writeString(" DO NOTHING")
			return nil
		}
		b.writeString(" DO UPDATE SET ")
		for i, c := range updateCols {
			if i > 0 {
				b.writeString(", ")
			}
			b.writeString(quoteIdent(c))
			b.writeString(" = EXCLUDED.")
			b.writeString(quoteIdent(c))
		}
		return nil
	default:
		return newParseErr(ParseInvalidOnConflict, "", "")
	}
}

func columnsExcluding(cols, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, c := range exclude {
		excluded[c] = true
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !excluded[c] {
			out = append(out, c)
		}
	}
	return out
}

// assembleUpdate runs the mutation safety checks, then emits `UPDATE ...
// SET ... WHERE ... [ORDER BY ...] [LIMIT ...] [RETURNING ...]`. SET
// columns are emitted in sorted order for deterministic output.
func assembleUpdate(b *sqlBuilder, table ResolvedTable, p *UpdateParams, resolver RelationshipResolver) error {
	if len(p.SetValues) == 0 {
		return newSqlErr(SqlNoSetForUpdate, "")
	}
	if err := checkMutationSafety(p.Filters, p.Order, p.Limit, SqlUnsafeUpdate); err != nil {
		return err
	}

	cols := make([]string, 0, len(p.SetValues))
	for c := range p.SetValues {
		cols = append(cols, c)
	}
	sortStrings(cols)

	b.writeString("UPDATE ")
	b.writeString(table.QualifiedName())
	b.writeString(" SET ")
	for i, c := range cols {
		if i > 0 {
			b.writeString(", ")
		}
		b.writeString(quoteIdent(c))
		b.writeString(" = ")
		b.writeString(b.bind(p.SetValues[c]))
	}

	if _, err := writeWhere(b, p.Filters); err != nil {
		return err
	}
	writeOrder(b, p.Order)
	if p.Limit != nil {
		b.writeString(" LIMIT ")
		b.writeString(b.bind(*p.Limit))
	}
	writeReturning(b, p.Returning)
	return nil
}

// assembleDelete applies the same safety invariants as UPDATE, no SET
// clause.
func assembleDelete(b *sqlBuilder, table ResolvedTable, p *DeleteParams, resolver RelationshipResolver) error {
	if err := checkMutationSafety(p.Filters, p.Order, p.Limit, SqlUnsafeDelete); err != nil {
		return err
	}

	b.writeString("DELETE FROM ")
	b.writeString(table.QualifiedName())

	if _, err := writeWhere(b, p.Filters); err != nil {
		return err
	}
	writeOrder(b, p.Order)
	if p.Limit != nil {
		b.writeString(" LIMIT ")
		b.writeString(b.bind(*p.Limit))
	}
	writeReturning(b, p.Returning)
	return nil
}

// writeReturning renders RETURNING, omitted entirely when items is nil.
func writeReturning(b *sqlBuilder, items []SelectItem) {
	if items == nil {
		return
	}
	b.writeString(" RETURNING ")
	if len(items) == 0 {
		b.writeString("*")
		return
	}
	for i, item := range items {
		if i > 0 {
			b.writeString(", ")
		}
		writeFieldProjection(b, item)
	}
}
