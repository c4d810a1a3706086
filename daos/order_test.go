package daos

import "testing"

// =============================================================================
// parseOrder Tests
// Edge cases: bare field, direction, nulls placement, both tails in either
// order, json-path fields, duplicate tails rejected, unknown tail rejected
// =============================================================================

func TestParseOrderTerm(t *testing.T) {
	t.Run("bare field defaults to asc", func(t *testing.T) {
		term, err := parseOrderTerm("created_at")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if term.Field.Name != "created_at" || term.Direction != DirAsc || term.Nulls != nil {
			t.Errorf("got %+v", term)
		}
	})

	t.Run("explicit desc", func(t *testing.T) {
		term, err := parseOrderTerm("created_at.desc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if term.Direction != DirDesc {
			t.Errorf("got %+v", term)
		}
	})

	t.Run("direction then nulls", func(t *testing.T) {
		term, err := parseOrderTerm("age.desc.nullsfirst")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if term.Direction != DirDesc || term.Nulls == nil || *term.Nulls != NullsFirst {
			t.Errorf("got %+v", term)
		}
	})

	t.Run("nulls then direction", func(t *testing.T) {
		term, err := parseOrderTerm("age.nullslast.asc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if term.Direction != DirAsc || term.Nulls == nil || *term.Nulls != NullsLast {
			t.Errorf("got %+v", term)
		}
	})

	t.Run("case insensitive tails", func(t *testing.T) {
		term, err := parseOrderTerm("age.DESC.NullsFirst")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if term.Direction != DirDesc || term.Nulls == nil || *term.Nulls != NullsFirst {
			t.Errorf("got %+v", term)
		}
	})

	t.Run("json path field", func(t *testing.T) {
		term, err := parseOrderTerm("metadata->>age.desc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if term.Field.Name != "metadata" || len(term.Field.JSONPath) != 1 {
			t.Errorf("got %+v", term.Field)
		}
	})

	t.Run("cast field", func(t *testing.T) {
		term, err := parseOrderTerm("price::numeric.desc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if term.Field.Cast != "numeric" || term.Direction != DirDesc {
			t.Errorf("got %+v", term)
		}
	})

	t.Run("duplicate direction rejected", func(t *testing.T) {
		if _, err := parseOrderTerm("age.asc.desc"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown trailing token rejected", func(t *testing.T) {
		if _, err := parseOrderTerm("age.upward"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseOrder(t *testing.T) {
	terms, err := parseOrder("name.asc,created_at.desc.nullslast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[0].Field.Name != "name" || terms[1].Field.Name != "created_at" {
		t.Errorf("got %+v", terms)
	}
	if terms[1].Direction != DirDesc || terms[1].Nulls == nil {
		t.Errorf("got %+v", terms[1])
	}
}
