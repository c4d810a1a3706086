package daos

import (
	"net/url"
	"strings"
)

// dispatchedQuery is the result of splitting a raw query string into its
// reserved-key and filter/logic components.
type dispatchedQuery struct {
	Select        string // last occurrence, "" if absent
	HasSelect     bool
	Order         string
	HasOrder      bool
	Limit         string
	HasLimit      bool
	Offset        string
	HasOffset     bool
	OnConflict    string
	HasOnConflict bool
	Columns       string
	HasColumns    bool
	Returning     string
	HasReturning  bool

	// Pairs holds every non-reserved key/value pair in encounter order,
	// with duplicates preserved: price=gte.1&price=lte.9 produces two
	// filters.
	Pairs []queryPair
}

type queryPair struct {
	Key   string
	Value string
}

// dispatchQuery splits a raw query string on `&` into key/value pairs and
// applies the duplicate-preservation rule: reserved keys keep only their
// last occurrence; everything else keeps every occurrence in order.
func dispatchQuery(rawQuery string) (dispatchedQuery, error) {
	var out dispatchedQuery

	if rawQuery == "" {
		return out, nil
	}

	for _, piece := range strings.Split(rawQuery, "&") {
		if piece == "" {
			continue
		}
		key, value, err := splitQueryPair(piece)
		if err != nil {
			return dispatchedQuery{}, err
		}

		if reservedKeys[key] {
			switch key {
			case "select":
				out.Select, out.HasSelect = value, true
			case "order":
				out.Order, out.HasOrder = value, true
			case "limit":
				out.Limit, out.HasLimit = value, true
			case "offset":
				out.Offset, out.HasOffset = value, true
			case "on_conflict":
				out.OnConflict, out.HasOnConflict = value, true
			case "columns":
				out.Columns, out.HasColumns = value, true
			case "returning":
				out.Returning, out.HasReturning = value, true
			}
			continue
		}

		out.Pairs = append(out.Pairs, queryPair{Key: key, Value: value})
	}

	return out, nil
}

// splitQueryPair splits and percent-decodes one `key=value` piece.
func splitQueryPair(piece string) (key, value string, err error) {
	idx := strings.IndexByte(piece, '=')
	var rawKey, rawVal string
	if idx < 0 {
		rawKey, rawVal = piece, ""
	} else {
		rawKey, rawVal = piece[:idx], piece[idx+1:]
	}

	key, err = url.QueryUnescape(rawKey)
	if err != nil {
		return "", "", newParseErr(ParseInvalidBody, "", piece)
	}
	value, err = url.QueryUnescape(rawVal)
	if err != nil {
		return "", "", newParseErr(ParseInvalidBody, "", piece)
	}
	return key, value, nil
}
