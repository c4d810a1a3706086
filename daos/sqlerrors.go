package daos

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ExecErrorKind classifies a failure returned by the database itself, as
// opposed to a failure found while parsing or assembling the request
// (ParseError/SqlError above). It is a condition-name rendering of the
// PostgreSQL SQLSTATE class, the same grouping lib/pq's ErrorCode.Class
// uses, trimmed to the classes a request-serving layer actually needs to
// distinguish.
type ExecErrorKind string

const (
	ExecUniqueViolation       ExecErrorKind = "unique_violation"
	ExecForeignKeyViolation   ExecErrorKind = "foreign_key_violation"
	ExecNotNullViolation      ExecErrorKind = "not_null_violation"
	ExecCheckViolation        ExecErrorKind = "check_violation"
	ExecExclusionViolation    ExecErrorKind = "exclusion_violation"
	ExecInvalidTextRepr       ExecErrorKind = "invalid_text_representation"
	ExecUndefinedColumn       ExecErrorKind = "undefined_column"
	ExecUndefinedTable        ExecErrorKind = "undefined_table"
	ExecUndefinedFunction     ExecErrorKind = "undefined_function"
	ExecInsufficientPrivilege ExecErrorKind = "insufficient_privilege"
	ExecQueryCanceled         ExecErrorKind = "query_canceled"
	ExecConnectionException   ExecErrorKind = "connection_exception"
	ExecSerializationFailure  ExecErrorKind = "serialization_failure"
	ExecDeadlockDetected      ExecErrorKind = "deadlock_detected"
	ExecOther                 ExecErrorKind = "other"
)

// sqlStateKinds maps SQLSTATE codes to ExecErrorKind. Only the codes a
// REST-style query layer needs to report distinctly are listed; everything
// else falls back to ExecOther. Codes and class numbers follow the
// PostgreSQL errcodes appendix, the same source lib/pq's errorCodeNames
// table is derived from.
var sqlStateKinds = map[string]ExecErrorKind{
	"23505": ExecUniqueViolation,
	"23503": ExecForeignKeyViolation,
	"23502": ExecNotNullViolation,
	"23514": ExecCheckViolation,
	"23P01": ExecExclusionViolation,
	"22P02": ExecInvalidTextRepr,
	"42703": ExecUndefinedColumn,
	"42P01": ExecUndefinedTable,
	"42883": ExecUndefinedFunction,
	"42501": ExecInsufficientPrivilege,
	"57014": ExecQueryCanceled,
	"40001": ExecSerializationFailure,
	"40P01": ExecDeadlockDetected,
}

// ExecError wraps a database-reported failure with a stable kind and the
// subset of PgError detail worth surfacing to a caller. The original
// *pgconn.PgError remains available via Unwrap for callers that want the
// full detail PostgreSQL sent.
type ExecError struct {
	Kind       ExecErrorKind
	Code       string
	Message    string
	Detail     string
	Constraint string
	Table      string
	Column     string
	cause      error
}

func (e *ExecError) Error() string {
	if e.Constraint != "" {
		return "exec error: " + string(e.Kind) + ": " + e.Message + " (constraint " + e.Constraint + ")"
	}
	return "exec error: " + string(e.Kind) + ": " + e.Message
}

func (e *ExecError) Unwrap() error { return e.cause }

// translatePgError converts a pgx execution error into an *ExecError when
// it originated from a PostgreSQL-reported SQLSTATE, classifying it via
// sqlStateKinds. Errors pgx raises itself (context cancellation, network
// failure) pass through unchanged; callers should still check
// errors.As(err, &ExecError{}) before falling back to err.Error().
func translatePgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	kind, ok := sqlStateKinds[pgErr.Code]
	if !ok {
		switch classOf(pgErr.Code) {
		case "08":
			kind = ExecConnectionException
		default:
			kind = ExecOther
		}
	}

	return &ExecError{
		Kind:       kind,
		Code:       pgErr.Code,
		Message:    pgErr.Message,
		Detail:     pgErr.Detail,
		Constraint: pgErr.ConstraintName,
		Table:      pgErr.TableName,
		Column:     pgErr.ColumnName,
		cause:      pgErr,
	}
}

// classOf returns a SQLSTATE's two-character class prefix, mirroring
// lib/pq's ErrorCode.Class.
func classOf(code string) string {
	if len(code) < 2 {
		return code
	}
	return code[:2]
}
