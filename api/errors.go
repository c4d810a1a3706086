package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/joe-ervin05/pgrest/daos"
)

// Error codes for SDK consumption.
// These codes are stable and can be used for programmatic error handling.
const (
	CodeParseError          = "PARSE_ERROR"
	CodeInvalidIdentifier   = "INVALID_IDENTIFIER"
	CodeInvalidOperator     = "INVALID_OPERATOR"
	CodeInvalidBody         = "INVALID_BODY"
	CodeQueryTooDeep        = "QUERY_TOO_DEEP"
	CodeUnsupportedMethod   = "UNSUPPORTED_METHOD"
	CodeUnsafeMutation      = "UNSAFE_MUTATION"
	CodeLimitWithoutOrder   = "LIMIT_WITHOUT_ORDER"
	CodeNoRelationship      = "NO_RELATIONSHIP"
	CodeAmbiguousEmbed      = "AMBIGUOUS_EMBED"
	CodeUniqueViolation     = "UNIQUE_VIOLATION"
	CodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
	CodeNotNullViolation    = "NOT_NULL_VIOLATION"
	CodeCheckViolation      = "CHECK_VIOLATION"
	CodeUndefinedTable      = "TABLE_NOT_FOUND"
	CodeUndefinedColumn     = "COLUMN_NOT_FOUND"
	CodeUndefinedFunction   = "FUNCTION_NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeTimeout             = "TIMEOUT"
	CodeSingularExpected    = "SINGULAR_EXPECTED"
	CodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// APIError represents a structured error response for the API.
// Code is a stable identifier for SDK/client error handling.
// Message describes what went wrong.
// Hint provides actionable guidance to resolve the issue.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

var errSingular = errors.New("expected a single row")

func errSingularRowCount(n int) error {
	return fmt.Errorf("%w, got %d", errSingular, n)
}

// RespErr writes a structured error response to the ResponseWriter.
func RespErr(w http.ResponseWriter, err error) {
	status, apiErr := BuildAPIError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// BuildAPIError maps an error to an HTTP status code and structured APIError.
// Returns appropriate status code and error details with diagnostic hints.
func BuildAPIError(err error) (int, APIError) {
	var parseErr *daos.ParseError
	if errors.As(err, &parseErr) {
		return buildParseError(parseErr)
	}

	var sqlErr *daos.SqlError
	if errors.As(err, &sqlErr) {
		return buildSqlError(sqlErr)
	}

	var execErr *daos.ExecError
	if errors.As(err, &execErr) {
		return buildExecError(execErr)
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, APIError{
			Code:    CodeRequestTooLarge,
			Message: err.Error(),
			Hint:    "Reduce the request body size or raise MAX_REQUEST_BODY.",
		}
	}

	switch {
	case errors.Is(err, errSingular):
		return http.StatusNotAcceptable, APIError{
			Code:    CodeSingularExpected,
			Message: err.Error(),
			Hint:    "Prefer: plurality=singular requires the query to match exactly one row.",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, APIError{
			Code:    CodeTimeout,
			Message: "request timed out",
			Hint:    "Narrow the query or raise REQUEST_TIMEOUT.",
		}
	}

	return http.StatusInternalServerError, APIError{
		Code:    CodeInternalError,
		Message: err.Error(),
	}
}

func buildParseError(err *daos.ParseError) (int, APIError) {
	apiErr := APIError{Code: CodeParseError, Message: err.Error()}

	switch err.Kind {
	case daos.ParseInvalidIdentifier, daos.ParseInvalidSchemaPath:
		apiErr.Code = CodeInvalidIdentifier
		apiErr.Hint = "Identifiers must start with a letter or underscore and contain only letters, digits, and underscores."
	case daos.ParseUnknownOperator:
		apiErr.Code = CodeInvalidOperator
		apiErr.Hint = "Valid operators: eq, neq, gt, gte, lt, lte, like, ilike, match, imatch, in, is, fts, plfts, phfts, wfts, cs, cd, ov, sl, sr, nxl, nxr, adj."
	case daos.ParseInvalidBody, daos.ParseInvalidJSONBody:
		apiErr.Code = CodeInvalidBody
		apiErr.Hint = "POST/PUT take an object or a non-empty array of objects; PATCH takes a non-empty object."
	case daos.ParseDepthExceeded:
		apiErr.Code = CodeQueryTooDeep
		apiErr.Hint = "Reduce the nesting depth of your query by fetching nested data in separate requests."
	case daos.ParseUnsupportedMethod:
		apiErr.Code = CodeUnsupportedMethod
		apiErr.Hint = "Supported methods: GET, POST, PUT, PATCH, DELETE (GET/POST for rpc paths)."
		return http.StatusMethodNotAllowed, apiErr
	}

	return http.StatusBadRequest, apiErr
}

func buildSqlError(err *daos.SqlError) (int, APIError) {
	switch err.Kind {
	case daos.SqlRelationNotFound:
		return http.StatusNotFound, APIError{
			Code:    CodeNoRelationship,
			Message: err.Error(),
			Hint:    "No foreign key relationship exists between these tables. Define a foreign key or query tables separately.",
		}
	case daos.SqlRelationAmbiguous:
		return http.StatusMultipleChoices, APIError{
			Code:    CodeAmbiguousEmbed,
			Message: err.Error(),
			Hint:    "More than one relationship matches. Disambiguate with a !constraint_name hint on the embedded resource.",
		}
	case daos.SqlUnsafeUpdate, daos.SqlUnsafeDelete:
		return http.StatusBadRequest, APIError{
			Code:    CodeUnsafeMutation,
			Message: err.Error(),
			Hint:    "UPDATE and DELETE require at least one filter to prevent unbounded mutations.",
		}
	case daos.SqlLimitWithoutOrder:
		return http.StatusBadRequest, APIError{
			Code:    CodeLimitWithoutOrder,
			Message: err.Error(),
			Hint:    "A limited mutation needs an order= parameter so the affected rows are deterministic.",
		}
	}

	return http.StatusBadRequest, APIError{Code: strings.ToUpper(string(err.Kind)), Message: err.Error()}
}

func buildExecError(err *daos.ExecError) (int, APIError) {
	apiErr := APIError{Code: strings.ToUpper(string(err.Kind)), Message: err.Message}
	if err.Detail != "" {
		apiErr.Hint = err.Detail
	}

	switch err.Kind {
	case daos.ExecUniqueViolation:
		apiErr.Code = CodeUniqueViolation
		return http.StatusConflict, apiErr
	case daos.ExecForeignKeyViolation:
		apiErr.Code = CodeForeignKeyViolation
		return http.StatusConflict, apiErr
	case daos.ExecExclusionViolation, daos.ExecSerializationFailure, daos.ExecDeadlockDetected:
		return http.StatusConflict, apiErr
	case daos.ExecNotNullViolation:
		apiErr.Code = CodeNotNullViolation
		return http.StatusBadRequest, apiErr
	case daos.ExecCheckViolation:
		apiErr.Code = CodeCheckViolation
		return http.StatusBadRequest, apiErr
	case daos.ExecInvalidTextRepr:
		return http.StatusBadRequest, apiErr
	case daos.ExecUndefinedTable:
		apiErr.Code = CodeUndefinedTable
		return http.StatusNotFound, apiErr
	case daos.ExecUndefinedColumn:
		apiErr.Code = CodeUndefinedColumn
		return http.StatusNotFound, apiErr
	case daos.ExecUndefinedFunction:
		apiErr.Code = CodeUndefinedFunction
		return http.StatusNotFound, apiErr
	case daos.ExecInsufficientPrivilege:
		apiErr.Code = CodeForbidden
		return http.StatusForbidden, apiErr
	case daos.ExecQueryCanceled:
		apiErr.Code = CodeTimeout
		return http.StatusGatewayTimeout, apiErr
	case daos.ExecConnectionException:
		return http.StatusServiceUnavailable, apiErr
	}

	return http.StatusInternalServerError, apiErr
}
