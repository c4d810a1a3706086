package daos

import "strings"

// ParseOperation is the core's single entry point: given a request's
// method, path, raw query string, optional JSON body, and header bag, it
// produces an Operation ready for SQL assembly, or a ParseError.
func ParseOperation(method, path, rawQuery string, body []byte, headers Headers, maxDepth int, resolver RelationshipResolver, defaultSchema string) (Operation, error) {
	isRpc := false
	pathSpec := strings.TrimPrefix(path, "/")
	if rest, ok := cutPrefix(pathSpec, "rpc/"); ok {
		isRpc = true
		pathSpec = rest
	}

	schema, name, err := resolveSchema(method, pathSpec, headers, defaultSchema)
	if err != nil {
		return Operation{}, err
	}
	table := ResolvedTable{Schema: schema, Name: name}
	prefer := parsePrefer(headers)

	dq, err := dispatchQuery(rawQuery)
	if err != nil {
		return Operation{}, err
	}

	if isRpc {
		return parseRpcOperation(method, table, dq, body, prefer, maxDepth, resolver)
	}

	switch method {
	case "GET":
		return parseSelectOperation(table, dq, body, prefer, maxDepth, resolver)
	case "POST":
		return parseInsertOperation(table, dq, body, prefer, maxDepth, resolver, false)
	case "PUT":
		return parseInsertOperation(table, dq, body, prefer, maxDepth, resolver, true)
	case "PATCH":
		return parseUpdateOperation(table, dq, body, prefer, maxDepth, resolver)
	case "DELETE":
		return parseDeleteOperation(table, dq, prefer, maxDepth, resolver)
	default:
		return Operation{}, newParseErr(ParseUnsupportedMethod, "", method)
	}
}

func cutPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

func parseSelectAndReturning(dq dispatchedQuery, maxDepth int) (selectItems, returning []SelectItem, err error) {
	if dq.HasSelect {
		selectItems, err = parseSelect(dq.Select, maxDepth)
		if err != nil {
			return nil, nil, err
		}
	}
	if dq.HasReturning {
		returning, err = parseSelect(dq.Returning, maxDepth)
		if err != nil {
			return nil, nil, err
		}
	}
	return selectItems, returning, nil
}

func parseOrderLimitOffset(dq dispatchedQuery) (order []OrderTerm, limit, offset *int64, err error) {
	if dq.HasOrder {
		order, err = parseOrder(dq.Order)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	if dq.HasLimit {
		n, err := parseUintParam("limit", dq.Limit)
		if err != nil {
			return nil, nil, nil, err
		}
		limit = &n
	}
	if dq.HasOffset {
		n, err := parseUintParam("offset", dq.Offset)
		if err != nil {
			return nil, nil, nil, err
		}
		offset = &n
	}
	return order, limit, offset, nil
}

func parseSelectOperation(table ResolvedTable, dq dispatchedQuery, body []byte, prefer PreferOptions, maxDepth int, resolver RelationshipResolver) (Operation, error) {
	if len(body) != 0 {
		return Operation{}, newParseErr(ParseInvalidBody, "", "GET requests must not carry a body")
	}

	selectItems, _, err := parseSelectAndReturning(dq, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	conditions, err := parseConditions(dq.Pairs, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	order, limit, offset, err := parseOrderLimitOffset(dq)
	if err != nil {
		return Operation{}, err
	}

	return Operation{
		Kind:  OpSelectKind,
		Table: table,
		Select: &ParsedParams{
			Select:  selectItems,
			Filters: conditions,
			Order:   order,
			Limit:   limit,
			Offset:  offset,
		},
		Prefer: prefer,
	}, nil
}

func parseInsertOperation(table ResolvedTable, dq dispatchedQuery, body []byte, prefer PreferOptions, maxDepth int, resolver RelationshipResolver, isPut bool) (Operation, error) {
	if len(body) == 0 {
		return Operation{}, newParseErr(ParseInvalidBody, "", "INSERT requires a body")
	}
	decoded, err := decodeBody(body)
	if err != nil {
		return Operation{}, err
	}
	values, err := parseInsertBody(decoded)
	if err != nil {
		return Operation{}, err
	}

	var columns []string
	if dq.HasColumns {
		columns = splitCommaTrim(dq.Columns)
		for _, c := range columns {
			if err := validateIdentifier("columns", c); err != nil {
				return Operation{}, err
			}
		}
	}

	selectItems, returning, err := parseSelectAndReturning(dq, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	if returning == nil {
		returning = selectItems
	}

	var onConflict *OnConflict
	if dq.HasOnConflict {
		oc, err := parseOnConflict(dq.OnConflict)
		if err != nil {
			return Operation{}, err
		}
		onConflict = &oc
	} else if isPut {
		oc := synthesizePutOnConflict(dq.Pairs)
		if oc != nil {
			onConflict = oc
		}
	}

	return Operation{
		Kind:  OpInsertKind,
		Table: table,
		Insert: &InsertParams{
			Values:     values,
			Columns:    columns,
			OnConflict: onConflict,
			Returning:  returning,
		},
		Prefer: prefer,
	}, nil
}

// synthesizePutOnConflict implements PUT upsert synthesis: the set of
// columns referenced by non-reserved query keys, after stripping
// any JSON path, becomes the conflict target with action DoUpdate. If no
// such columns exist, on_conflict is left empty (nil).
func synthesizePutOnConflict(pairs []queryPair) *OnConflict {
	var cols []string
	seen := map[string]bool{}
	for _, p := range pairs {
		if _, _, ok := parseLogicKey(p.Key); ok {
			continue
		}
		f, err := parseField(p.Key)
		if err != nil {
			continue
		}
		if !seen[f.Name] {
			seen[f.Name] = true
			cols = append(cols, f.Name)
		}
	}
	if len(cols) == 0 {
		return nil
	}
	sortStrings(cols)
	return &OnConflict{Columns: cols, Action: DoUpdate}
}

func parseUpdateOperation(table ResolvedTable, dq dispatchedQuery, body []byte, prefer PreferOptions, maxDepth int, resolver RelationshipResolver) (Operation, error) {
	if len(body) == 0 {
		return Operation{}, newParseErr(ParseInvalidBody, "", "PATCH requires a body")
	}
	decoded, err := decodeBody(body)
	if err != nil {
		return Operation{}, err
	}
	setValues, err := parseUpdateBody(decoded)
	if err != nil {
		return Operation{}, err
	}

	selectItems, returning, err := parseSelectAndReturning(dq, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	if returning == nil {
		returning = selectItems
	}
	conditions, err := parseConditions(dq.Pairs, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	order, limit, _, err := parseOrderLimitOffset(dq)
	if err != nil {
		return Operation{}, err
	}

	return Operation{
		Kind:  OpUpdateKind,
		Table: table,
		Update: &UpdateParams{
			SetValues: setValues,
			Filters:   conditions,
			Order:     order,
			Limit:     limit,
			Returning: returning,
		},
		Prefer: prefer,
	}, nil
}

func parseDeleteOperation(table ResolvedTable, dq dispatchedQuery, prefer PreferOptions, maxDepth int, resolver RelationshipResolver) (Operation, error) {
	selectItems, returning, err := parseSelectAndReturning(dq, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	if returning == nil {
		returning = selectItems
	}
	conditions, err := parseConditions(dq.Pairs, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	order, limit, _, err := parseOrderLimitOffset(dq)
	if err != nil {
		return Operation{}, err
	}

	return Operation{
		Kind:  OpDeleteKind,
		Table: table,
		Delete: &DeleteParams{
			Filters:   conditions,
			Order:     order,
			Limit:     limit,
			Returning: returning,
		},
		Prefer: prefer,
	}, nil
}

func parseRpcOperation(method string, table ResolvedTable, dq dispatchedQuery, body []byte, prefer PreferOptions, maxDepth int, resolver RelationshipResolver) (Operation, error) {
	if method != "GET" && method != "POST" {
		return Operation{}, newParseErr(ParseUnsupportedMethod, "", method)
	}

	var decoded any
	if method == "POST" && len(body) != 0 {
		var err error
		decoded, err = decodeBody(body)
		if err != nil {
			return Operation{}, err
		}
	}
	if method == "GET" && len(body) != 0 {
		return Operation{}, newParseErr(ParseInvalidBody, "", "GET rpc must not carry a body")
	}

	args, err := parseRpcArgs(decoded)
	if err != nil {
		return Operation{}, err
	}

	selectItems, returning, err := parseSelectAndReturning(dq, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	if returning == nil {
		returning = selectItems
	}
	conditions, err := parseConditions(dq.Pairs, maxDepth)
	if err != nil {
		return Operation{}, err
	}
	order, limit, offset, err := parseOrderLimitOffset(dq)
	if err != nil {
		return Operation{}, err
	}

	return Operation{
		Kind:  OpRpcKind,
		Table: table,
		Rpc: &RpcParams{
			FunctionName: table.Name,
			Args:         args,
			Filters:      conditions,
			Order:        order,
			Limit:        limit,
			Offset:       offset,
			Returning:    returning,
		},
		Prefer: prefer,
	}, nil
}
