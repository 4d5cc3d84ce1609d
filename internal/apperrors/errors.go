package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger error taxonomy.
var (
	ErrUnbalanced         = errors.New("debit and credit must balance")
	ErrTooFewLines        = errors.New("entry needs at least two lines with an amount")
	ErrMissingAccount     = errors.New("every line needs a postable account")
	ErrMissingBranch      = errors.New("branch is required")
	ErrInvalidState       = errors.New("entry is not in a state that allows this operation")
	ErrReasonRequired     = errors.New("a void reason is required")
	ErrPersistence        = errors.New("persistence failure")
	ErrIntegrityViolation = errors.New("ledger integrity violation")
)

// ErrorCode is the stable machine-readable name of an error kind.
type ErrorCode string

const (
	CodeUnbalanced         ErrorCode = "UNBALANCED"
	CodeTooFewLines        ErrorCode = "TOO_FEW_LINES"
	CodeMissingAccount     ErrorCode = "MISSING_ACCOUNT"
	CodeMissingBranch      ErrorCode = "MISSING_BRANCH"
	CodeInvalidState       ErrorCode = "INVALID_STATE"
	CodeReasonRequired     ErrorCode = "REASON_REQUIRED"
	CodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
	CodeIntegrityViolation ErrorCode = "INTEGRITY_VIOLATION"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeDuplicate          ErrorCode = "DUPLICATE"
	CodeValidation         ErrorCode = "VALIDATION"
	CodeUnknown            ErrorCode = "UNKNOWN"
)

var codeOrder = []struct {
	err  error
	code ErrorCode
}{
	{ErrUnbalanced, CodeUnbalanced},
	{ErrTooFewLines, CodeTooFewLines},
	{ErrMissingAccount, CodeMissingAccount},
	{ErrMissingBranch, CodeMissingBranch},
	{ErrReasonRequired, CodeReasonRequired},
	{ErrInvalidState, CodeInvalidState},
	{ErrIntegrityViolation, CodeIntegrityViolation},
	{ErrNotFound, CodeNotFound},
	{ErrDuplicate, CodeDuplicate},
	{ErrValidation, CodeValidation},
	{ErrPersistence, CodePersistenceFailure},
}

// Code reports the taxonomy code of err, or CodeUnknown.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, c := range codeOrder {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

// AppError carries an HTTP-ish status code and an error kind alongside the wrapped cause.
type AppError struct {
	StatusCode int
	Message    string
	Kind       error
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches the error kind so callers can use errors.Is(err, ErrPersistence).
func (e *AppError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// NewAppError creates an AppError without a kind.
func NewAppError(statusCode int, message string, err error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

// NewPersistenceError wraps an underlying store error as a PERSISTENCE_FAILURE.
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{StatusCode: 500, Message: message, Kind: ErrPersistence, Err: err}
}

// NewNotFoundError creates a not found error for the given resource.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}
