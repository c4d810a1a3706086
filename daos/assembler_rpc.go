package daos

// assembleRpc emits `SELECT <projection> FROM "schema"."fn"("arg" := $N,
// ...) [WHERE ...] [ORDER BY ...] [LIMIT/OFFSET ...]`. Arguments are
// emitted in sorted-key order for determinism; projection defaults to `*`.
func assembleRpc(b *sqlBuilder, table ResolvedTable, p *RpcParams, resolver RelationshipResolver) error {
	b.writeString("SELECT ")
	if err := writeProjection(b, table, p.Returning, resolver); err != nil {
		return err
	}
	b.writeString(" FROM ")
	b.writeString(table.QualifiedName())
	b.writeString("(")

	keys := make([]string, 0, len(p.Args))
	for k := range p.Args {
		keys = append(keys, k)
	}
	sortStrings(keys)

	for i, k := range keys {
		if i > 0 {
			b.writeString(", ")
		}
		b.writeString(quoteIdent(k))
		b.writeString(" := ")
		b.writeString(b.bind(p.Args[k]))
	}
	b.writeString(")")

	if _, err := writeWhere(b, p.Filters); err != nil {
		return err
	}
	writeOrder(b, p.Order)
	writeLimitOffset(b, p.Limit, p.Offset)
	return nil
}
