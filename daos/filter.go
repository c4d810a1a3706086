package daos

import "strings"

// parseFilterValueString parses the value side of a query pair whose key
// names a field: `[ "not." ] op [ "(" (quantifier|language) ")" ] "." value`
//. field is the already-parsed Field this condition applies to.
func parseFilterValueString(field Field, raw string) (Filter, error) {
	negated := false
	rest := raw
	if strings.HasPrefix(rest, "not.") {
		negated = true
		rest = rest[len("not."):]
	}
	if strings.HasPrefix(rest, "not.") {
		return Filter{}, newParseErr(ParseDoubleNegation, field.Name, raw)
	}

	opName, rest, ok := splitOnDotOrParen(rest)
	if !ok {
		return Filter{}, newParseErr(ParseUnknownOperator, field.Name, raw)
	}
	op, ok := filterOperatorNames[strings.ToLower(opName)]
	if !ok {
		return Filter{}, newParseErr(ParseUnknownOperator, field.Name, opName)
	}

	var quant *Quantifier
	var lang *string

	if strings.HasPrefix(rest, "(") {
		closeIdx := strings.IndexByte(rest, ')')
		if closeIdx < 0 {
			return Filter{}, newParseErr(ParseUnbalancedParens, field.Name, raw)
		}
		tag := rest[1:closeIdx]
		rest = rest[closeIdx+1:]

		lowerTag := strings.ToLower(tag)
		if lowerTag == string(QuantifierAny) || lowerTag == string(QuantifierAll) {
			if !quantifiableOperators[op] {
				return Filter{}, newParseErr(ParseInvalidQuantifier, field.Name, tag)
			}
			q := Quantifier(lowerTag)
			quant = &q
		} else {
			if !ftsOperators[op] {
				return Filter{}, newParseErr(ParseInvalidLanguage, field.Name, tag)
			}
			if !isIdentifier(tag) {
				return Filter{}, newParseErr(ParseInvalidIdentifier, field.Name, tag)
			}
			lang = &tag
		}
	}

	if !strings.HasPrefix(rest, ".") {
		return Filter{}, newParseErr(ParseUnknownOperator, field.Name, raw)
	}
	valueStr := rest[1:]

	if lang != nil && !ftsOperators[op] {
		return Filter{}, newParseErr(ParseInvalidLanguage, field.Name, *lang)
	}

	value, err := decodeFilterValue(op, quant, valueStr)
	if err != nil {
		return Filter{}, err
	}

	return Filter{
		Field:      field,
		Operator:   op,
		Value:      value,
		Quantifier: quant,
		Language:   lang,
		Negated:    negated,
	}, nil
}

// splitOnDotOrParen finds the operator-name token, which ends at the first
// `.` or `(`.
func splitOnDotOrParen(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == '(' {
			if i == 0 {
				return "", s, false
			}
			return s[:i], s[i:], true
		}
	}
	return "", s, false
}

// decodeFilterValue applies the per-operator value decoding rules.
func decodeFilterValue(op FilterOperator, quant *Quantifier, raw string) (FilterValue, error) {
	switch op {
	case OpIn, OpOv:
		list, err := splitList(raw)
		if err != nil {
			return FilterValue{}, err
		}
		return FilterValue{Kind: FilterValueList, List: list}, nil
	case OpCs, OpCd:
		return FilterValue{Kind: FilterValueSingle, Single: raw}, nil
	case OpIs:
		lower := strings.ToLower(raw)
		switch lower {
		case "null", "not_null", "true", "false", "unknown":
		default:
			return FilterValue{}, newParseErr(ParseInvalidIsValue, "", raw)
		}
		return FilterValue{Kind: FilterValueSingle, Single: lower}, nil
	default:
		if quant != nil {
			list, err := splitList(raw)
			if err != nil {
				return FilterValue{}, err
			}
			return FilterValue{Kind: FilterValueList, List: list}, nil
		}
		return FilterValue{Kind: FilterValueSingle, Single: raw}, nil
	}
}
