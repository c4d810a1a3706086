package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/joe-ervin05/pgrest/config"
	"github.com/joe-ervin05/pgrest/daos"
)

// DbHandler is the shape every route handler reduces to: a context, the
// shared database, and the request in; response bytes and the parsed
// operation out. The operation carries the Prefer options that decide the
// response status and shape.
type DbHandler func(ctx context.Context, db *daos.Database, req *http.Request) ([]byte, daos.Operation, error)

// withDB adapts a DbHandler into an http.HandlerFunc, centralizing error
// rendering and response shaping.
func withDB(db *daos.Database, handler DbHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, op, err := handler(r.Context(), db, r)
		if err != nil {
			RespErr(w, err)
			return
		}
		respond(w, op, data)
	}
}

// readBody drains the request body, capped at the configured maximum size.
func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, req.Body, config.Cfg.MaxRequestBody))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// respond writes the success response, shaping status and body from the
// operation's kind and Prefer options.
func respond(w http.ResponseWriter, op daos.Operation, data []byte) {
	status := http.StatusOK
	if op.Kind == daos.OpInsertKind {
		status = http.StatusCreated
	}

	rr := op.Prefer.ReturnRepresentation
	if rr != nil && *rr != daos.ReturnFull && op.Kind != daos.OpSelectKind && op.Kind != daos.OpRpcKind {
		w.Header().Set("Preference-Applied", "return="+preferTokenFor(*rr))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if op.Prefer.Plurality != nil && *op.Prefer.Plurality == daos.PluralitySingular {
		single, err := unwrapSingular(data)
		if err != nil {
			RespErr(w, err)
			return
		}
		data = single
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func preferTokenFor(rr daos.ReturnRepresentation) string {
	switch rr {
	case daos.ReturnMinimal:
		return "minimal"
	case daos.ReturnHeadersOnly:
		return "headers-only"
	default:
		return "representation"
	}
}

// unwrapSingular converts a one-element JSON array into its sole element,
// failing when the result set does not hold exactly one row.
func unwrapSingular(data []byte) ([]byte, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		// Not an array (e.g. a rows_affected envelope); pass through.
		return data, nil
	}
	if len(rows) != 1 {
		return nil, errSingularRowCount(len(rows))
	}
	return rows[0], nil
}
