package daos

import "strconv"

// parseConditions turns the non-reserved query pairs into the flat,
// implicit-AND list of LogicCondition used by ParsedParams/UpdateParams/
// DeleteParams/RpcParams.
func parseConditions(pairs []queryPair, maxDepth int) ([]LogicCondition, error) {
	conditions := make([]LogicCondition, 0, len(pairs))
	for _, pair := range pairs {
		if op, negated, ok := parseLogicKey(pair.Key); ok {
			tree, err := parseLogicTree(op, negated, pair.Value, 0, maxDepth)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, TreeCondition(tree))
			continue
		}

		field, err := parseField(pair.Key)
		if err != nil {
			return nil, err
		}
		filter, err := parseFilterValueString(field, pair.Value)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, FilterCondition(filter))
	}
	return conditions, nil
}

// parseUintParam parses an unsigned-integer query value (`limit`/
// `offset`), failing on anything else.
func parseUintParam(field, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, newParseErr(ParseInvalidInteger, field, raw)
	}
	return n, nil
}

// parseOnConflict parses the `on_conflict` query value: a comma-separated
// column list optionally suffixed `.do_nothing` or `.do_update` (default
// `do_nothing`).
func parseOnConflict(raw string) (OnConflict, error) {
	action := DoNothing
	columnsPart := raw

	if idx := lastDotIndex(raw); idx >= 0 {
		suffix := raw[idx+1:]
		switch suffix {
		case "do_nothing":
			action = DoNothing
			columnsPart = raw[:idx]
		case "do_update":
			action = DoUpdate
			columnsPart = raw[:idx]
		}
	}

	cols := splitCommaTrim(columnsPart)
	if len(cols) == 0 || cols[0] == "" {
		return OnConflict{}, newParseErr(ParseInvalidOnConflict, "on_conflict", raw)
	}
	for _, c := range cols {
		if err := validateIdentifier("on_conflict", c); err != nil {
			return OnConflict{}, err
		}
	}

	return OnConflict{Columns: cols, Action: action}, nil
}

func lastDotIndex(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

func splitCommaTrim(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, trimSpaceASCII(s[start:i]))
			start = i + 1
		}
	}
	return out
}

func trimSpaceASCII(s string) string {
	start, end := 0, len(s)
	for start < end && s[start] == ' ' {
		start++
	}
	for end > start && s[end-1] == ' ' {
		end--
	}
	return s[start:end]
}
