package daos

import "strings"

// parseOrder parses the comma-separated `order=` value into an ordered
// list of OrderTerm.
func parseOrder(raw string) ([]OrderTerm, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	terms := make([]OrderTerm, 0, len(parts))
	for _, p := range parts {
		term, err := parseOrderTerm(p)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// parseOrderTerm parses one `field(.direction)?(.nullsplacement)?` term,
// the two optional tails accepted in either order.
func parseOrderTerm(raw string) (OrderTerm, error) {
	segs := strings.Split(raw, ".")
	if len(segs) == 0 || segs[0] == "" {
		return OrderTerm{}, newParseErr(ParseInvalidIdentifier, "", raw)
	}

	// Work backward from the end, peeling off recognized direction/nulls
	// tokens; whatever remains (rejoined with ".") is the field expression.
	end := len(segs)
	term := OrderTerm{Direction: DirAsc}
	sawDir, sawNulls := false, false

	for end > 1 {
		tok := strings.ToLower(segs[end-1])
		switch tok {
		case "asc", "desc":
			if sawDir {
				return OrderTerm{}, newParseErr(ParseInvalidIdentifier, "", raw)
			}
			if tok == "asc" {
				term.Direction = DirAsc
			} else {
				term.Direction = DirDesc
			}
			sawDir = true
			end--
			continue
		case "nullsfirst", "nullslast":
			if sawNulls {
				return OrderTerm{}, newParseErr(ParseInvalidIdentifier, "", raw)
			}
			var n NullsPlacement
			if tok == "nullsfirst" {
				n = NullsFirst
			} else {
				n = NullsLast
			}
			term.Nulls = &n
			sawNulls = true
			end--
			continue
		}
		break
	}

	// The field expression must satisfy the strict grammar here: a leftover
	// dot segment that wasn't a recognized direction/nulls token would
	// otherwise be swallowed into the column name by the lenient fallback.
	fieldStr := strings.Join(segs[:end], ".")
	field, ok := parseFieldGrammar(fieldStr)
	if !ok {
		return OrderTerm{}, newParseErr(ParseInvalidIdentifier, "order", raw)
	}
	term.Field = field
	return term, nil
}
