package daos

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database wraps a pgx connection pool and the ambient settings (default
// schema, nesting-depth cap, relationship resolver) every request needs.
// Database itself is stateless between requests; its fields are read-only
// after construction.
type Database struct {
	Pool          *pgxpool.Pool
	DefaultSchema string
	MaxDepth      int
	Resolver      RelationshipResolver
}

// Connect opens a pgx connection pool against dsn with the given maximum
// pool size.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Handle executes one request end to end: parse → assemble → run →
// JSON-encode. It is the thin seam an HTTP layer calls through; the parse
// and assembly stages above never touch the network themselves.
func (d *Database) Handle(ctx context.Context, method, path, rawQuery string, body []byte, headers Headers) ([]byte, Operation, error) {
	maxDepth := d.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}
	schema := d.DefaultSchema
	if schema == "" {
		schema = "public"
	}
	op, err := ParseOperation(method, path, rawQuery, body, headers, maxDepth, d.Resolver, schema)
	if err != nil {
		return nil, Operation{}, err
	}

	sql, params, err := AssembleSQL(op, d.Resolver)
	if err != nil {
		return nil, op, err
	}

	wantsRows := op.Kind == OpSelectKind || op.Kind == OpRpcKind || mutationHasReturning(op)
	if !wantsRows {
		tag, err := d.Pool.Exec(ctx, sql, params...)
		if err != nil {
			return nil, op, translatePgError(err)
		}
		return json.RawMessage(`{"rows_affected":` + strconv.FormatInt(tag.RowsAffected(), 10) + `}`), op, nil
	}

	rows, err := d.Pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, op, translatePgError(err)
	}
	defer rows.Close()

	data, err := rowsToJSON(rows)
	if err != nil {
		return nil, op, translatePgError(err)
	}
	return data, op, nil
}

func mutationHasReturning(op Operation) bool {
	switch op.Kind {
	case OpInsertKind:
		return op.Insert.Returning != nil
	case OpUpdateKind:
		return op.Update.Returning != nil
	case OpDeleteKind:
		return op.Delete.Returning != nil
	}
	return false
}

// rowsToJSON drains a pgx.Rows result into a JSON array of row objects
// keyed by column name, using pgx's own type decoding.
func rowsToJSON(rows pgx.Rows) ([]byte, error) {
	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(names))
		for i, n := range names {
			if i < len(vals) {
				row[n] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}
