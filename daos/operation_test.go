package daos

import (
	"reflect"
	"testing"
)

// =============================================================================
// ParseOperation Tests
// Edge cases: method dispatch, body requirements per method, PUT upsert
// synthesis, rpc paths, unsupported methods, parse idempotence
// =============================================================================

func TestParseOperation(t *testing.T) {
	noHeaders := Headers{}

	t.Run("GET produces select", func(t *testing.T) {
		op, err := ParseOperation("GET", "/users", "age=gte.18", nil, noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Kind != OpSelectKind || op.Table.Schema != "public" || op.Table.Name != "users" {
			t.Errorf("got %+v", op)
		}
		if len(op.Select.Filters) != 1 {
			t.Errorf("got %+v", op.Select.Filters)
		}
	})

	t.Run("GET with body rejected", func(t *testing.T) {
		_, err := ParseOperation("GET", "/users", "", []byte(`{}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("POST requires body", func(t *testing.T) {
		_, err := ParseOperation("POST", "/users", "", nil, noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("POST produces insert", func(t *testing.T) {
		op, err := ParseOperation("POST", "/users", "", []byte(`{"name":"A"}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Kind != OpInsertKind || op.Insert.OnConflict != nil {
			t.Errorf("got %+v", op)
		}
	})

	t.Run("PUT synthesizes on_conflict from filter keys", func(t *testing.T) {
		op, err := ParseOperation("PUT", "/users", "email=eq.a@x", []byte(`{"email":"a@x","name":"A2"}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		oc := op.Insert.OnConflict
		if oc == nil || oc.Action != DoUpdate {
			t.Fatalf("got %+v", oc)
		}
		if !reflect.DeepEqual(oc.Columns, []string{"email"}) {
			t.Errorf("got %+v", oc.Columns)
		}
	})

	t.Run("PUT json path keys strip to the column", func(t *testing.T) {
		op, err := ParseOperation("PUT", "/users", "data->>id=eq.7", []byte(`{"data":{}}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		oc := op.Insert.OnConflict
		if oc == nil || !reflect.DeepEqual(oc.Columns, []string{"data"}) {
			t.Fatalf("got %+v", oc)
		}
	})

	t.Run("PUT without filter keys leaves on_conflict empty", func(t *testing.T) {
		op, err := ParseOperation("PUT", "/users", "", []byte(`{"name":"A"}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Insert.OnConflict != nil {
			t.Errorf("got %+v", op.Insert.OnConflict)
		}
	})

	t.Run("explicit on_conflict wins over PUT synthesis", func(t *testing.T) {
		op, err := ParseOperation("PUT", "/users", "email=eq.a@x&on_conflict=id.do_update", []byte(`{"id":1}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		oc := op.Insert.OnConflict
		if oc == nil || !reflect.DeepEqual(oc.Columns, []string{"id"}) {
			t.Fatalf("got %+v", oc)
		}
	})

	t.Run("PATCH produces update", func(t *testing.T) {
		op, err := ParseOperation("PATCH", "/users", "id=eq.1", []byte(`{"status":"x"}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Kind != OpUpdateKind || len(op.Update.Filters) != 1 {
			t.Errorf("got %+v", op)
		}
	})

	t.Run("DELETE produces delete", func(t *testing.T) {
		op, err := ParseOperation("DELETE", "/users", "id=eq.1", nil, noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Kind != OpDeleteKind {
			t.Errorf("got %+v", op)
		}
	})

	t.Run("rpc path produces rpc", func(t *testing.T) {
		op, err := ParseOperation("POST", "/rpc/calc", "", []byte(`{"a":1}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Kind != OpRpcKind || op.Rpc.FunctionName != "calc" {
			t.Errorf("got %+v", op)
		}
	})

	t.Run("rpc GET carries no body", func(t *testing.T) {
		if _, err := ParseOperation("GET", "/rpc/calc", "", []byte(`{}`), noHeaders, DefaultMaxNestingDepth, nil, "public"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rpc rejects other methods", func(t *testing.T) {
		if _, err := ParseOperation("DELETE", "/rpc/calc", "", nil, noHeaders, DefaultMaxNestingDepth, nil, "public"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rpc schema qualification", func(t *testing.T) {
		op, err := ParseOperation("POST", "/rpc/math.calc", "", []byte(`{}`), noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Table.Schema != "math" || op.Rpc.FunctionName != "calc" {
			t.Errorf("got %+v", op.Table)
		}
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		_, err := ParseOperation("BREW", "/users", "", nil, noHeaders, DefaultMaxNestingDepth, nil, "public")
		perr, ok := err.(*ParseError)
		if !ok || perr.Kind != ParseUnsupportedMethod {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("prefer options carried on the operation", func(t *testing.T) {
		h := NewHeaders(map[string][]string{"Prefer": {"return=representation"}})
		op, err := ParseOperation("POST", "/users", "", []byte(`{"name":"A"}`), h, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if op.Prefer.ReturnRepresentation == nil || *op.Prefer.ReturnRepresentation != ReturnFull {
			t.Errorf("got %+v", op.Prefer)
		}
	})

	t.Run("parsing is idempotent", func(t *testing.T) {
		const query = "select=id,posts(title)&and=(age.gte.18,or(role.eq.admin,role.eq.mod))&order=id.desc&limit=3"
		a, err := ParseOperation("GET", "/users", query, nil, noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := ParseOperation("GET", "/users", query, nil, noHeaders, DefaultMaxNestingDepth, nil, "public")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("re-parsing produced a different AST:\n%+v\n%+v", a, b)
		}
	})
}

// =============================================================================
// Body validation Tests
// =============================================================================

func TestParseInsertBody(t *testing.T) {
	t.Run("bulk rows with heterogeneous keys union columns", func(t *testing.T) {
		decoded, err := decodeBody([]byte(`[{"a":1},{"a":2,"b":3}]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		values, err := parseInsertBody(decoded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(values.Columns(), []string{"a", "b"}) {
			t.Errorf("got %v", values.Columns())
		}
	})

	t.Run("empty array rejected", func(t *testing.T) {
		decoded, _ := decodeBody([]byte(`[]`))
		if _, err := parseInsertBody(decoded); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("array with empty object rejected", func(t *testing.T) {
		decoded, _ := decodeBody([]byte(`[{"a":1},{}]`))
		if _, err := parseInsertBody(decoded); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("scalar body rejected", func(t *testing.T) {
		decoded, _ := decodeBody([]byte(`42`))
		if _, err := parseInsertBody(decoded); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		if _, err := decodeBody([]byte(`{"a":`)); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseUpdateBody(t *testing.T) {
	decoded, _ := decodeBody([]byte(`{}`))
	if _, err := parseUpdateBody(decoded); err == nil {
		t.Fatal("expected error for empty object")
	}

	decoded, _ = decodeBody([]byte(`[{"a":1}]`))
	if _, err := parseUpdateBody(decoded); err == nil {
		t.Fatal("expected error for array body")
	}
}
