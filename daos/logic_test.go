package daos

import "testing"

// =============================================================================
// parseLogicTree Tests
// Edge cases: flat and-tree, or-tree with equals-notation, nested tree,
// negated wrapper, depth limit, unbalanced parens, empty element
// =============================================================================

func TestParseLogicTree(t *testing.T) {
	t.Run("flat and tree", func(t *testing.T) {
		tree, err := parseLogicTree(LogicAnd, false, "(age.gt.18,age.lt.65)", 0, DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tree.Conditions) != 2 {
			t.Fatalf("expected 2 conditions, got %d", len(tree.Conditions))
		}
		if tree.Conditions[0].Kind != LogicConditionFilter || tree.Conditions[0].Filter.Operator != OpGt {
			t.Errorf("condition 0 = %+v", tree.Conditions[0])
		}
	})

	t.Run("or tree with equals notation", func(t *testing.T) {
		tree, err := parseLogicTree(LogicOr, false, "(name=eq.bob,name=eq.alice)", 0, DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tree.Conditions) != 2 {
			t.Fatalf("expected 2 conditions, got %d", len(tree.Conditions))
		}
	})

	t.Run("nested tree", func(t *testing.T) {
		tree, err := parseLogicTree(LogicAnd, false, "(age.gt.18,or(name.eq.bob,name.eq.alice))", 0, DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tree.Conditions) != 2 {
			t.Fatalf("expected 2 conditions, got %d", len(tree.Conditions))
		}
		nested := tree.Conditions[1]
		if nested.Kind != LogicConditionTree || nested.Tree.Operator != LogicOr {
			t.Errorf("expected nested or tree, got %+v", nested)
		}
	})

	t.Run("negated wrapper", func(t *testing.T) {
		tree, err := parseLogicTree(LogicAnd, true, "(age.gt.18)", 0, DefaultMaxNestingDepth)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !tree.Negated {
			t.Error("expected negated tree")
		}
	})

	t.Run("depth limit enforced", func(t *testing.T) {
		if _, err := parseLogicTree(LogicAnd, false, "(age.gt.18)", 5, 4); err == nil {
			t.Fatal("expected depth-exceeded error")
		}
	})

	t.Run("unbalanced parens rejected", func(t *testing.T) {
		if _, err := parseLogicTree(LogicAnd, false, "(age.gt.18", 0, DefaultMaxNestingDepth); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty element rejected", func(t *testing.T) {
		if _, err := parseLogicTree(LogicAnd, false, "(age.gt.18,)", 0, DefaultMaxNestingDepth); err == nil {
			t.Fatal("expected error")
		}
	})
}

// =============================================================================
// parseDotNotationFilter Tests
// Edge cases: list-valued filter rejected in dot-notation
// =============================================================================

func TestParseDotNotationFilterRejectsListValues(t *testing.T) {
	if _, err := parseDotNotationFilter("id.in.(1,2,3)"); err == nil {
		t.Fatal("expected list-valued dot-notation filter to be rejected")
	}
}
