package daos

import "strings"

// parseLogicKey reports whether key names a logic-tree wrapper,
// case-insensitively, returning its operator and whether it is negated.
func parseLogicKey(key string) (op LogicOperator, negated bool, ok bool) {
	lower := strings.ToLower(key)
	op, ok = logicKeys[lower]
	if !ok {
		return "", false, false
	}
	return op, isNegatedLogicKey(lower), true
}

// parseLogicTree parses the value of an and/or/not.and/not.or key into a
// LogicTree. depth is the current nesting depth (0 at the top
// level); maxDepth bounds recursion.
func parseLogicTree(op LogicOperator, negated bool, raw string, depth, maxDepth int) (LogicTree, error) {
	if depth > maxDepth {
		return LogicTree{}, newParseErr(ParseDepthExceeded, "", raw)
	}

	inner, err := stripOuterParens(raw)
	if err != nil {
		return LogicTree{}, err
	}

	elems, err := splitTopLevel(inner)
	if err != nil {
		return LogicTree{}, err
	}

	conditions := make([]LogicCondition, 0, len(elems))
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return LogicTree{}, newParseErr(ParseEmptyCondition, "", raw)
		}
		cond, err := parseLogicElement(elem, depth+1, maxDepth)
		if err != nil {
			return LogicTree{}, err
		}
		conditions = append(conditions, cond)
	}

	if len(conditions) == 0 {
		return LogicTree{}, newParseErr(ParseEmptyCondition, "", raw)
	}

	return LogicTree{Operator: op, Conditions: conditions, Negated: negated}, nil
}

// parseLogicElement parses one comma-split element of a logic-tree body:
// a nested logic expression, a dot-notation filter, or an equals-notation
// filter.
func parseLogicElement(elem string, depth, maxDepth int) (LogicCondition, error) {
	if nestedOp, negated, name, ok := matchNestedLogic(elem); ok {
		tree, err := parseLogicTree(nestedOp, negated, strings.TrimPrefix(elem, name), depth, maxDepth)
		if err != nil {
			return LogicCondition{}, err
		}
		return TreeCondition(tree), nil
	}

	if idx := strings.IndexByte(elem, '='); idx >= 0 {
		fieldStr := elem[:idx]
		valueStr := elem[idx+1:]
		field, err := parseField(fieldStr)
		if err != nil {
			return LogicCondition{}, err
		}
		filter, err := parseFilterValueString(field, valueStr)
		if err != nil {
			return LogicCondition{}, err
		}
		return FilterCondition(filter), nil
	}

	return parseDotNotationFilter(elem)
}

// matchNestedLogic detects a `name(` prefix naming a logic wrapper.
func matchNestedLogic(elem string) (op LogicOperator, negated bool, prefix string, ok bool) {
	for name, wrapOp := range logicKeys {
		prefix := name + "("
		if len(elem) >= len(prefix) && strings.EqualFold(elem[:len(prefix)], prefix) {
			return wrapOp, isNegatedLogicKey(name), elem[:len(name)], true
		}
	}
	return "", false, "", false
}

// parseDotNotationFilter parses `field.op.value` or `field.not.op.value`
//. Dot-notation supports only Single-valued filters: no quantifier,
// no embedded list.
func parseDotNotationFilter(elem string) (LogicCondition, error) {
	parts := strings.SplitN(elem, ".", 2)
	if len(parts) != 2 || parts[0] == "" {
		return LogicCondition{}, newParseErr(ParseEmptyCondition, "", elem)
	}
	field, err := parseField(parts[0])
	if err != nil {
		return LogicCondition{}, err
	}

	filter, err := parseFilterValueString(field, parts[1])
	if err != nil {
		return LogicCondition{}, err
	}
	if filter.Quantifier != nil || filter.Value.Kind == FilterValueList {
		return LogicCondition{}, newParseErr(ParseInvalidQuantifier, field.Name, elem)
	}

	return FilterCondition(filter), nil
}
