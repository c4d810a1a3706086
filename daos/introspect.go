package daos

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// fkQuery lists every foreign-key constraint in a schema with its column
// pairs in key order. conkey/confkey are unnested together so composite
// keys keep their pairing.
const fkQuery = `
SELECT
	con.conname,
	src.relname AS source_table,
	tgt.relname AS target_table,
	array_agg(src_att.attname ORDER BY k.ord) AS source_columns,
	array_agg(tgt_att.attname ORDER BY k.ord) AS target_columns,
	EXISTS (
		SELECT 1 FROM pg_constraint u
		WHERE u.conrelid = con.conrelid
		  AND u.contype IN ('p', 'u')
		  AND u.conkey @> con.conkey AND con.conkey @> u.conkey
	) AS source_unique
FROM pg_constraint con
JOIN pg_class src ON src.oid = con.conrelid
JOIN pg_class tgt ON tgt.oid = con.confrelid
JOIN pg_namespace ns ON ns.oid = src.relnamespace
CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(src_num, tgt_num, ord)
JOIN pg_attribute src_att ON src_att.attrelid = con.conrelid AND src_att.attnum = k.src_num
JOIN pg_attribute tgt_att ON tgt_att.attrelid = con.confrelid AND tgt_att.attnum = k.tgt_num
WHERE con.contype = 'f' AND ns.nspname = $1
GROUP BY con.conname, con.conrelid, con.conkey, src.relname, tgt.relname`

// LoadRelationships introspects the foreign keys of one schema and builds
// a StaticRelationshipResolver from them. It is meant to run once at
// startup; the resolver it returns is read-only afterwards.
//
// Each foreign key registers two directions: embedding the referenced
// table from the referencing one (many-to-one, or one-to-one when the FK
// columns are also unique) and the reverse (one-to-many). The constraint
// name doubles as the disambiguation hint when a table pair is linked by
// more than one foreign key.
func LoadRelationships(ctx context.Context, pool *pgxpool.Pool, schema string) (*StaticRelationshipResolver, error) {
	rows, err := pool.Query(ctx, fkQuery, schema)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	resolver := NewStaticRelationshipResolver()
	for rows.Next() {
		var (
			name, sourceTable, targetTable string
			sourceCols, targetCols         []string
			sourceUnique                   bool
		)
		if err := rows.Scan(&name, &sourceTable, &targetTable, &sourceCols, &targetCols, &sourceUnique); err != nil {
			return nil, err
		}

		forward := ManyToOne
		reverse := OneToMany
		if sourceUnique {
			forward = OneToOne
			reverse = OneToOne
		}

		resolver.Add(schema, sourceTable, targetTable, name, Relationship{
			SourceColumns: sourceCols,
			TargetColumns: targetCols,
			Cardinality:   forward,
		})
		resolver.Add(schema, targetTable, sourceTable, name, Relationship{
			SourceColumns: targetCols,
			TargetColumns: sourceCols,
			Cardinality:   reverse,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return resolver, nil
}
