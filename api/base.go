// Package api exposes the query pipeline over HTTP: one route per
// method/path combination, each translating the request into a
// daos.ParseOperation call and shaping the JSON response.
package api

import (
	"context"
	"net/http"

	"github.com/joe-ervin05/pgrest/daos"
)

// Run registers all API routes on the provided ServeMux.
//
// Routes:
//   - GET/POST/PUT/PATCH/DELETE /{table} - query and mutate table rows
//   - GET/POST /rpc/{function} - invoke a database function
//   - GET /health - liveness probe
//
// {table} and {function} may be schema-qualified ("schema.table"); the
// Accept-Profile/Content-Profile headers select the schema otherwise.
func Run(app *http.ServeMux, db *daos.Database) {
	// Function invocation. These patterns have two path segments and the
	// table patterns match only one, so "rpc" is never treated as a table
	// name.
	app.HandleFunc("GET /rpc/{function}", handleRequest(db))
	app.HandleFunc("POST /rpc/{function}", handleRequest(db))

	// Row operations
	app.HandleFunc("GET /{table}", handleRequest(db))
	app.HandleFunc("POST /{table}", handleRequest(db))
	app.HandleFunc("PUT /{table}", handleRequest(db))
	app.HandleFunc("PATCH /{table}", handleRequest(db))
	app.HandleFunc("DELETE /{table}", handleRequest(db))

	app.HandleFunc("GET /health", handleHealth(db))
}

// handleRequest serves every table and rpc route: the pipeline itself
// dispatches on method and path, so the handler only moves bytes.
func handleRequest(db *daos.Database) http.HandlerFunc {
	return withDB(db, func(ctx context.Context, db *daos.Database, req *http.Request) ([]byte, daos.Operation, error) {
		body, err := readBody(req)
		if err != nil {
			return nil, daos.Operation{}, err
		}
		return db.Handle(ctx, req.Method, req.URL.Path, req.URL.RawQuery, body, daos.NewHeaders(req.Header))
	})
}

func handleHealth(db *daos.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Pool.Ping(r.Context()); err != nil {
			RespErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}
