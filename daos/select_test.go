package daos

import "testing"

// =============================================================================
// parseSelect Tests
// Edge cases: plain fields, wildcard, aliasing, nested relations, spread,
// hint classification, empty children, depth cap, unbalanced parens
// =============================================================================

func TestParseSelect(t *testing.T) {
	t.Run("plain fields", func(t *testing.T) {
		items, err := parseSelect("id,name,email", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		for _, it := range items {
			if it.ItemType != SelectField {
				t.Errorf("expected field item, got %+v", it)
			}
		}
	})

	t.Run("wildcard", func(t *testing.T) {
		items, err := parseSelect("*", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].Name != "*" {
			t.Errorf("got %+v", items)
		}
	})

	t.Run("alias comes first", func(t *testing.T) {
		items, err := parseSelect("full_name:name", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items[0].Alias != "full_name" || items[0].Name != "name" {
			t.Errorf("got %+v", items[0])
		}
	})

	t.Run("nested relation", func(t *testing.T) {
		items, err := parseSelect("id,posts(title,comments(body))", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		rel := items[1]
		if rel.ItemType != SelectRelation || rel.Name != "posts" || len(rel.Children) != 2 {
			t.Fatalf("got %+v", rel)
		}
		inner := rel.Children[1]
		if inner.ItemType != SelectRelation || inner.Name != "comments" || len(inner.Children) != 1 {
			t.Errorf("got %+v", inner)
		}
	})

	t.Run("relation with empty children", func(t *testing.T) {
		items, err := parseSelect("posts()", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items[0].ItemType != SelectRelation || len(items[0].Children) != 0 {
			t.Errorf("got %+v", items[0])
		}
	})

	t.Run("spread", func(t *testing.T) {
		items, err := parseSelect("...meta(key,value)", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items[0].ItemType != SelectSpread || items[0].Name != "meta" || len(items[0].Children) != 2 {
			t.Errorf("got %+v", items[0])
		}
	})

	t.Run("spread without children rejected", func(t *testing.T) {
		if _, err := parseSelect("...meta", DefaultMaxNestingDepth); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("inner hint", func(t *testing.T) {
		items, err := parseSelect("posts!fk_posts_author(title)", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h := items[0].Hint
		if h == nil || h.Kind != HintInner || h.Text != "fk_posts_author" {
			t.Errorf("got %+v", h)
		}
	})

	t.Run("cast hint", func(t *testing.T) {
		items, err := parseSelect("amount!amount::numeric", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h := items[0].Hint
		if h == nil || h.Kind != HintCast {
			t.Errorf("got %+v", h)
		}
	})

	t.Run("json path hint", func(t *testing.T) {
		items, err := parseSelect("data!data->profile", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h := items[0].Hint
		if h == nil || h.Kind != HintJSONPath {
			t.Errorf("got %+v", h)
		}
	})

	t.Run("json path cast hint", func(t *testing.T) {
		items, err := parseSelect("data!data->>age::int", DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h := items[0].Hint
		if h == nil || h.Kind != HintJSONPathCast {
			t.Errorf("got %+v", h)
		}
	})

	t.Run("depth cap enforced", func(t *testing.T) {
		if _, err := parseSelect("a(b(c(d)))", 2); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("well formed below cap parses", func(t *testing.T) {
		if _, err := parseSelect("a(b(c(d)))", 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unbalanced parens rejected", func(t *testing.T) {
		if _, err := parseSelect("posts(title", DefaultMaxNestingDepth); err == nil {
			t.Fatal("expected error")
		}
		if _, err := parseSelect("posts)title", DefaultMaxNestingDepth); err == nil {
			t.Fatal("expected error")
		}
	})
}
