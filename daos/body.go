package daos

import (
	"bytes"
	"encoding/json"
)

// decodeBody unmarshals a raw JSON request body into the closed value
// union the rest of the pipeline consumes: an object, an array, or a
// scalar/primitive.
func decodeBody(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, newParseErr(ParseInvalidJSONBody, "", err.Error())
	}
	return v, nil
}

// parseInsertBody validates a decoded JSON body into InsertValues for
// POST/PUT: it must be an object, or a non-empty array of non-empty
// objects.
func parseInsertBody(v any) (InsertValues, error) {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			return InsertValues{}, newParseErr(ParseInvalidBody, "", "empty object")
		}
		return InsertValues{Kind: InsertSingle, Single: t}, nil
	case []any:
		if len(t) == 0 {
			return InsertValues{}, newParseErr(ParseInvalidBody, "", "empty array")
		}
		rows := make([]map[string]any, 0, len(t))
		for _, elem := range t {
			row, ok := elem.(map[string]any)
			if !ok || len(row) == 0 {
				return InsertValues{}, newParseErr(ParseInvalidBody, "", "array element must be a non-empty object")
			}
			rows = append(rows, row)
		}
		return InsertValues{Kind: InsertBulk, Bulk: rows}, nil
	default:
		return InsertValues{}, newParseErr(ParseInvalidBody, "", "body must be an object or array of objects")
	}
}

// parseUpdateBody validates a decoded JSON body into a non-empty
// set_values map for PATCH.
func parseUpdateBody(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, newParseErr(ParseInvalidBody, "", "body must be an object")
	}
	if len(obj) == 0 {
		return nil, newParseErr(ParseInvalidBody, "", "empty object")
	}
	return obj, nil
}

// parseRpcArgs validates a decoded JSON body into an RPC argument map
//: an object, or absent (nil body yields an empty map).
func parseRpcArgs(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, newParseErr(ParseInvalidBody, "", "RPC body must be an object")
	}
	return obj, nil
}
