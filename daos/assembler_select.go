package daos

import "strconv"

// assembleSelect emits `SELECT <projection> FROM <table> [WHERE ...]
// [ORDER BY ...] [LIMIT/OFFSET ...]`.
func assembleSelect(b *sqlBuilder, table ResolvedTable, p *ParsedParams, resolver RelationshipResolver) error {
	b.writeString("SELECT ")
	if err := writeProjection(b, table, p.Select, resolver); err != nil {
		return err
	}
	b.writeString(" FROM ")
	b.writeString(table.QualifiedName())

	if _, err := writeWhere(b, p.Filters); err != nil {
		return err
	}
	writeOrder(b, p.Order)
	writeLimitOffset(b, p.Limit, p.Offset)
	return nil
}

// writeProjection renders a select list, defaulting to `*` when items is
// nil.
func writeProjection(b *sqlBuilder, table ResolvedTable, items []SelectItem, resolver RelationshipResolver) error {
	if len(items) == 0 {
		b.writeString("*")
		return nil
	}

	first := true
	for _, item := range items {
		switch item.ItemType {
		case SelectField:
			if !first {
				b.writeString(", ")
			}
			first = false
			writeFieldProjection(b, item)
		case SelectSpread:
			cols, err := spreadColumns(table, item, resolver)
			if err != nil {
				return err
			}
			for _, c := range cols {
				if !first {
					b.writeString(", ")
				}
				first = false
				b.writeString(c)
			}
		case SelectRelation:
			if !first {
				b.writeString(", ")
			}
			first = false
			if err := writeRelationProjection(b, table, item, resolver); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFieldProjection(b *sqlBuilder, item SelectItem) {
	var expr string
	if item.Name == "*" {
		expr = "*"
	} else if f, err := parseField(item.Name); err == nil {
		expr = renderField(f)
	} else {
		expr = quoteIdent(item.Name)
	}
	b.writeString(expr)
	if item.Alias != "" {
		b.writeString(" AS ")
		b.writeString(quoteIdent(item.Alias))
	}
}

// spreadColumns renders a spread's child columns directly into the parent
// projection, without a nesting wrapper.
func spreadColumns(table ResolvedTable, item SelectItem, resolver RelationshipResolver) ([]string, error) {
	out := make([]string, 0, len(item.Children))
	for _, child := range item.Children {
		if child.ItemType != SelectField {
			continue
		}
		var expr string
		if child.Name == "*" {
			expr = "*"
		} else if f, err := parseField(child.Name); err == nil {
			expr = renderField(f)
		} else {
			expr = quoteIdent(child.Name)
		}
		if child.Alias != "" {
			expr += " AS " + quoteIdent(child.Alias)
		}
		out = append(out, expr)
	}
	return out, nil
}

// writeRelationProjection builds the correlated subquery for one embedded
// relation. alias (or name, if alias absent) becomes the output
// column name via an AS clause.
func writeRelationProjection(b *sqlBuilder, parent ResolvedTable, item SelectItem, resolver RelationshipResolver) error {
	outName := item.Name
	if item.Alias != "" {
		outName = item.Alias
	}

	hintText := ""
	if item.Hint != nil && item.Hint.Kind == HintInner {
		hintText = item.Hint.Text
	}

	if resolver == nil {
		return writeDegradedRelation(b, item, outName)
	}

	rel, status := resolver.FindRelationship(parent.Schema, parent.Name, item.Name, hintText)
	switch status {
	case RelationshipNotFound:
		return relationNotFoundErr(parent.Name, item.Name, hintText)
	case RelationshipAmbiguous:
		return relationAmbiguousErr(parent.Name, item.Name, hintText)
	}

	childTable := ResolvedTable{Schema: parent.Schema, Name: item.Name}

	switch rel.Cardinality {
	case ManyToOne, OneToOne:
		return writeToOneRelation(b, parent, childTable, rel, item, outName, resolver)
	case OneToMany:
		return writeToManyRelation(b, parent, childTable, rel, item, outName, resolver)
	case ManyToMany:
		if rel.Junction == nil {
			return manyToManyNotYetSupportedErr("")
		}
		return writeManyToManyRelation(b, parent, childTable, rel, item, outName, resolver)
	default:
		return newSqlErr(SqlUnsupportedCardinality, strconv.Itoa(int(rel.Cardinality)))
	}
}

// writeDegradedRelation emits the best-effort placeholder used when no
// relationship resolver is supplied: a subquery that aggregates the
// relation as JSON using only the children's own identifiers, with no
// JOIN predicate. The resulting SQL is only valid where the database can
// infer the join; the placeholder never passes individual columns to the
// row-to-JSON form.
func writeDegradedRelation(b *sqlBuilder, item SelectItem, outName string) error {
	childTable := quoteIdent(item.Name)
	b.writeString("(SELECT json_agg(")
	b.writeString(childTable)
	b.writeString(") FROM ")
	b.writeString(childTable)
	b.writeString(") AS ")
	b.writeString(quoteIdent(outName))
	return nil
}

func writeToOneRelation(b *sqlBuilder, parent, child ResolvedTable, rel Relationship, item SelectItem, outName string, resolver RelationshipResolver) error {
	b.writeString("(SELECT row_to_json(")
	alias := child.Name
	b.writeString(quoteIdent(alias))
	b.writeString(") FROM (SELECT ")
	if err := writeProjection(b, child, item.Children, resolver); err != nil {
		return err
	}
	b.writeString(" FROM ")
	b.writeString(child.QualifiedName())
	b.writeString(" WHERE ")
	writeJoinPredicate(b, parent, child, rel)
	b.writeString(" LIMIT 1) ")
	b.writeString(quoteIdent(alias))
	b.writeString(") AS ")
	b.writeString(quoteIdent(outName))
	return nil
}

func writeToManyRelation(b *sqlBuilder, parent, child ResolvedTable, rel Relationship, item SelectItem, outName string, resolver RelationshipResolver) error {
	b.writeString("(SELECT COALESCE(json_agg(")
	alias := child.Name
	b.writeString(quoteIdent(alias))
	b.writeString("), '[]') FROM (SELECT ")
	if err := writeProjection(b, child, item.Children, resolver); err != nil {
		return err
	}
	b.writeString(" FROM ")
	b.writeString(child.QualifiedName())
	b.writeString(" WHERE ")
	writeJoinPredicate(b, parent, child, rel)
	b.writeString(") ")
	b.writeString(quoteIdent(alias))
	b.writeString(") AS ")
	b.writeString(quoteIdent(outName))
	return nil
}

func writeManyToManyRelation(b *sqlBuilder, parent, child ResolvedTable, rel Relationship, item SelectItem, outName string, resolver RelationshipResolver) error {
	j := rel.Junction
	b.writeString("(SELECT COALESCE(json_agg(")
	alias := child.Name
	b.writeString(quoteIdent(alias))
	b.writeString("), '[]') FROM (SELECT ")
	if err := writeProjection(b, child, item.Children, resolver); err != nil {
		return err
	}
	b.writeString(" FROM ")
	b.writeString(child.QualifiedName())
	b.writeString(" JOIN ")
	b.writeString(quoteIdent(j.Table))
	b.writeString(" ON ")
	b.writeString(quoteIdent(j.Table))
	b.writeString(".")
	b.writeString(quoteIdent(j.TargetColumn))
	b.writeString(" = ")
	b.writeString(child.QualifiedName())
	b.writeString(".")
	// child's own PK is assumed to be the first target column of rel.
	if len(rel.TargetColumns) > 0 {
		b.writeString(quoteIdent(rel.TargetColumns[0]))
	}
	b.writeString(" WHERE ")
	for i, sc := range rel.SourceColumns {
		if i > 0 {
			b.writeString(" AND ")
		}
		b.writeString(quoteIdent(j.Table))
		b.writeString(".")
		b.writeString(quoteIdent(j.SourceColumn))
		b.writeString(" = ")
		b.writeString(parent.QualifiedName())
		b.writeString(".")
		b.writeString(quoteIdent(sc))
	}
	b.writeString(") ")
	b.writeString(quoteIdent(alias))
	b.writeString(") AS ")
	b.writeString(quoteIdent(outName))
	return nil
}

// writeJoinPredicate renders the FK-column correlation between parent and
// child for ManyToOne/OneToOne/OneToMany relationships.
func writeJoinPredicate(b *sqlBuilder, parent, child ResolvedTable, rel Relationship) {
	for i := range rel.SourceColumns {
		if i > 0 {
			b.writeString(" AND ")
		}
		b.writeString(child.QualifiedName())
		b.writeString(".")
		b.writeString(quoteIdent(rel.TargetColumns[i]))
		b.writeString(" = ")
		b.writeString(parent.QualifiedName())
		b.writeString(".")
		b.writeString(quoteIdent(rel.SourceColumns[i]))
	}
}
