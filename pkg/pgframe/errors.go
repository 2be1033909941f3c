package pgframe

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy.
// Every *Error matches exactly one of these through errors.Is().
//
// Example usage:
//
//	_, err := ingester.Copy(ctx, ds)
//	if errors.Is(err, pgframe.ErrSchema) {
//	    // Table name or column type could not be used
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the database could not be reached.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchema indicates an unmappable column type, a malformed identifier,
	// a missing table or another catalog-level failure.
	ErrSchema = errors.New("schema error")

	// ErrData indicates rows that disagree with the dataset shape or
	// values the database rejected as malformed.
	ErrData = errors.New("data error")

	// ErrIntegrity indicates a constraint violation reported by the database.
	ErrIntegrity = errors.New("integrity violation")

	// ErrExecutionFailed indicates SQL execution failed for an unclassified reason.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// Kind classifies a failure.
type Kind int

const (
	KindExecution Kind = iota
	KindConnection
	KindSchema
	KindData
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindSchema:
		return "schema"
	case KindData:
		return "data"
	case KindIntegrity:
		return "integrity"
	default:
		return "execution"
	}
}

// Sentinel returns the sentinel error matched by errors.Is for this kind.
func (k Kind) Sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnectionFailed
	case KindSchema:
		return ErrSchema
	case KindData:
		return ErrData
	case KindIntegrity:
		return ErrIntegrity
	default:
		return ErrExecutionFailed
	}
}

// Error is the typed failure returned by every pgframe operation.
type Error struct {
	Kind   Kind
	Op     string // operation, e.g. "ensure table", "copy"
	Table  string // empty when not table-specific
	Column string // set for column-level schema and data failures
	Err    error
}

// NewError builds an *Error. err may be nil when the message in op is enough.
func NewError(kind Kind, op, table string, err error) *Error {
	return &Error{Kind: kind, Op: op, Table: table, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Op != "" {
		b.WriteString(" during ")
		b.WriteString(e.Op)
	}
	if e.Table != "" {
		fmt.Fprintf(&b, " on table %q", e.Table)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// KindOf extracts the failure kind from err.
// Errors that carry no *Error are reported as KindExecution.
func KindOf(err error) Kind {
	var pfErr *PartialFailure
	if errors.As(err, &pfErr) {
		return pfErr.Kind()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrConnectionFailed):
		return KindConnection
	case errors.Is(err, ErrSchema):
		return KindSchema
	case errors.Is(err, ErrData):
		return KindData
	case errors.Is(err, ErrIntegrity):
		return KindIntegrity
	}
	return KindExecution
}

// RowFailure records one rejected row during single-row ingestion.
type RowFailure struct {
	Row int // zero-based row index in the dataset
	Err error
}

// PartialFailure is returned when some rows were committed and others failed.
// The committed rows stay in the table.
type PartialFailure struct {
	Table     string
	Succeeded int
	Failed    int
	First     []RowFailure // capped sample, in row order
}

func (p *PartialFailure) Error() string {
	msg := fmt.Sprintf("partial failure on table %q: %d row(s) written, %d row(s) failed", p.Table, p.Succeeded, p.Failed)
	if len(p.First) > 0 {
		msg += fmt.Sprintf("; first failure at row %d: %v", p.First[0].Row, p.First[0].Err)
	}
	return msg
}

// Unwrap exposes the first row failure so errors.Is reaches its sentinel.
func (p *PartialFailure) Unwrap() error {
	if len(p.First) == 0 {
		return nil
	}
	return p.First[0].Err
}

// Kind returns the kind of the first recorded row failure.
func (p *PartialFailure) Kind() Kind {
	if len(p.First) == 0 {
		return KindExecution
	}
	var e *Error
	if errors.As(p.First[0].Err, &e) {
		return e.Kind
	}
	return KindExecution
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var pfErr *PartialFailure
	if errors.As(err, &pfErr) {
		return ExitPartialFailure
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSchema):
		return ExitSchemaError
	case errors.Is(err, ErrData):
		return ExitDataError
	case errors.Is(err, ErrIntegrity):
		return ExitIntegrityError
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	}

	// Cobra reports usage problems as plain errors.
	errStr := err.Error()
	for _, pattern := range []string{"unknown flag", "unknown shorthand flag", "accepts ", "required flag", "invalid argument", "unknown command"} {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
