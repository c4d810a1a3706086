package daos

import "testing"

// =============================================================================
// parseField Tests
// Edge cases: bare name, cast only, single json step, ->> text step, array
// index step, chained steps with trailing cast, invalid identifiers
// =============================================================================

func TestParseField(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Field
		wantErr bool
	}{
		{"bare name", "age", Field{Name: "age"}, false},
		{"cast only", "age::text", Field{Name: "age", Cast: "text"}, false},
		{
			"single arrow step",
			"data->meta",
			Field{Name: "data", JSONPath: []JSONPathStep{{Kind: JSONArrow, Key: "meta"}}},
			false,
		},
		{
			"double arrow text step",
			"data->>meta",
			Field{Name: "data", JSONPath: []JSONPathStep{{Kind: JSONDoubleArrow, Key: "meta"}}},
			false,
		},
		{
			"array index step",
			"data->0",
			Field{Name: "data", JSONPath: []JSONPathStep{{Kind: JSONArrayIndex, Index: 0}}},
			false,
		},
		{
			"chained steps with trailing cast",
			"data->meta->>age::int",
			Field{
				Name: "data",
				JSONPath: []JSONPathStep{
					{Kind: JSONArrow, Key: "meta"},
					{Kind: JSONDoubleArrow, Key: "age"},
				},
				Cast: "int",
			},
			false,
		},
		{"empty name rejected", "", Field{}, true},
		{"trailing dash rejected", "age->", Field{}, true},
		{"cast must be identifier", "age::", Field{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseField(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseField(%q) expected error, got %+v", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseField(%q) unexpected error: %v", tt.raw, err)
			}
			if got.Name != tt.want.Name || got.Cast != tt.want.Cast {
				t.Errorf("parseField(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
			if len(got.JSONPath) != len(tt.want.JSONPath) {
				t.Fatalf("parseField(%q) path len = %d, want %d", tt.raw, len(got.JSONPath), len(tt.want.JSONPath))
			}
			for i := range got.JSONPath {
				if got.JSONPath[i] != tt.want.JSONPath[i] {
					t.Errorf("parseField(%q) path[%d] = %+v, want %+v", tt.raw, i, got.JSONPath[i], tt.want.JSONPath[i])
				}
			}
		})
	}
}

func TestRenderField(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", "age", `"age"`},
		{"cast", "age::text", `"age"::text`},
		{"json arrow", "data->meta", `"data"->'meta'`},
		{"json double arrow", "data->>meta", `"data"->>'meta'`},
		{"json array index", "data->0", `"data"->0`},
		{"json path with cast", "data->>age::int", `("data"->>'age')::int`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseField(tt.raw)
			if err != nil {
				t.Fatalf("parseField(%q): %v", tt.raw, err)
			}
			if got := renderField(f); got != tt.want {
				t.Errorf("renderField(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
