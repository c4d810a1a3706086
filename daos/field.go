package daos

import "strings"

// parseField parses `identifier (jsonOp identifier)* ("::" identifier)?`
//. jsonOp is `->` or `->>`, matched greedily (`->>` before `->`); an
// ArrayIndex step is recognized when the identifier position instead holds
// an unsigned integer literal.
func parseField(raw string) (Field, error) {
	f, ok := parseFieldGrammar(raw)
	if ok {
		return f, nil
	}
	return parseFieldFallback(raw)
}

// parseFieldGrammar implements the primary grammar-driven path.
func parseFieldGrammar(raw string) (Field, bool) {
	rest := raw

	name, rest, ok := lexIdentToken(rest)
	if !ok || name == "" {
		return Field{}, false
	}

	var steps []JSONPathStep
	for {
		if strings.HasPrefix(rest, "->>") {
			rest = rest[3:]
			key, r2, isIdx, idx, ok := lexJSONKeyOrIndex(rest)
			if !ok {
				return Field{}, false
			}
			rest = r2
			if isIdx {
				steps = append(steps, JSONPathStep{Kind: JSONArrayIndex, Index: idx})
			} else {
				steps = append(steps, JSONPathStep{Kind: JSONDoubleArrow, Key: key})
			}
			continue
		}
		if strings.HasPrefix(rest, "->") {
			rest = rest[2:]
			key, r2, isIdx, idx, ok := lexJSONKeyOrIndex(rest)
			if !ok {
				return Field{}, false
			}
			rest = r2
			if isIdx {
				steps = append(steps, JSONPathStep{Kind: JSONArrayIndex, Index: idx})
			} else {
				steps = append(steps, JSONPathStep{Kind: JSONArrow, Key: key})
			}
			continue
		}
		break
	}

	var cast string
	if strings.HasPrefix(rest, "::") {
		rest = rest[2:]
		ident, r2, ok := lexIdentToken(rest)
		if !ok || ident == "" {
			return Field{}, false
		}
		cast = ident
		rest = r2
	}

	if rest != "" {
		return Field{}, false
	}

	return Field{Name: name, JSONPath: steps, Cast: cast}, true
}

// lexIdentToken consumes a leading identifier from s, returning it and the
// remainder.
func lexIdentToken(s string) (string, string, bool) {
	if s == "" || !isIdentStart(s[0]) {
		return "", s, false
	}
	i := 1
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[:i], s[i:], true
}

// lexJSONKeyOrIndex consumes either an identifier key or an unsigned
// integer array index immediately following a json-path operator.
func lexJSONKeyOrIndex(s string) (key string, rest string, isIdx bool, idx int32, ok bool) {
	if s == "" {
		return "", s, false, 0, false
	}
	if s[0] >= '0' && s[0] <= '9' {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		var n int32
		for _, c := range s[:i] {
			n = n*10 + int32(c-'0')
		}
		return "", s[i:], true, n, true
	}
	id, r, ok2 := lexIdentToken(s)
	if !ok2 {
		return "", s, false, 0, false
	}
	return id, r, false, 0, true
}

// parseFieldFallback handles name shapes the grammar-driven parser rejects:
// split once on `::` for the cast, then scan the remaining name portion for
// `->`/`->>` steps. The leading name segment must be non-empty.
func parseFieldFallback(raw string) (Field, error) {
	namePart := raw
	cast := ""
	if i := strings.LastIndex(raw, "::"); i >= 0 {
		namePart = raw[:i]
		cast = raw[i+2:]
		if cast == "" || !isIdentifier(cast) {
			return Field{}, newParseErr(ParseInvalidIdentifier, "", raw)
		}
	}

	segs := splitJSONOps(namePart)
	if len(segs) == 0 || segs[0] == "" {
		return Field{}, newParseErr(ParseInvalidIdentifier, "", raw)
	}

	name := segs[0]
	var steps []JSONPathStep
	for _, seg := range segs[1:] {
		kind := JSONArrow
		body := seg
		if strings.HasPrefix(seg, ">") {
			kind = JSONDoubleArrow
			body = seg[1:]
		}
		if body != "" && isAllDigits(body) {
			var n int32
			for _, c := range body {
				n = n*10 + int32(c-'0')
			}
			steps = append(steps, JSONPathStep{Kind: JSONArrayIndex, Index: n})
			continue
		}
		if !isIdentifier(body) {
			return Field{}, newParseErr(ParseInvalidIdentifier, "", raw)
		}
		steps = append(steps, JSONPathStep{Kind: kind, Key: body})
	}

	return Field{Name: name, JSONPath: steps, Cast: cast}, nil
}

// splitJSONOps splits s at every `->` boundary, leaving a leading `>` on
// the following segment when the boundary was actually `->>`.
func splitJSONOps(s string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '-' && s[i+1] == '>' {
			out = append(out, s[start:i])
			start = i + 2
			i++
		}
	}
	out = append(out, s[start:])
	return out
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
