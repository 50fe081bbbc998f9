package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes a failure so callers can decide whether to recover.
type ErrorType int

const (
	// TypeConfig - invalid run parameters, fatal before processing begins
	TypeConfig ErrorType = iota
	// TypeRepository - one repository could not be read (missing, corrupt,
	// timed out, git exited non-zero); recovered locally, repository skipped
	TypeRepository
	// TypeMalformedCommit - one raw log record could not be parsed;
	// recovered locally, record dropped
	TypeMalformedCommit
	// TypeStorage - run archive read/write failure
	TypeStorage
	// TypeExternal - forge API or other external service failure
	TypeExternal
	// TypeInternal - unexpected internal state
	TypeInternal
)

// Severity tells the caller how much of the run an error invalidates.
type Severity int

const (
	// SeverityLow - record-level, drop and continue
	SeverityLow Severity = iota
	// SeverityMedium - repository-level, skip and continue
	SeverityMedium
	// SeverityCritical - run-level, stop before processing
	SeverityCritical
)

// Error is a categorized error with optional cause and key/value context.
type Error struct {
	Type     ErrorType
	Severity Severity
	Message  string
	Cause    error
	Context  map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on error type, so errors.Is against a typed sentinel works
// across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithContext attaches a key/value pair for diagnostics.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether this error should stop the run.
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// DetailedString renders the error with its context for log output.
func (e *Error) DetailedString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", typeString(e.Type), e.Message))
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	for k, v := range e.Context {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, v))
	}
	return sb.String()
}

func typeString(t ErrorType) string {
	switch t {
	case TypeConfig:
		return "CONFIG"
	case TypeRepository:
		return "REPOSITORY"
	case TypeMalformedCommit:
		return "MALFORMED_COMMIT"
	case TypeStorage:
		return "STORAGE"
	case TypeExternal:
		return "EXTERNAL"
	case TypeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// New creates an error with the given type, severity and message.
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:     errType,
		Severity: severity,
		Message:  message,
		Context:  make(map[string]interface{}),
	}
}

// Wrap wraps an existing error. Returns nil when err is nil.
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:     errType,
		Severity: severity,
		Message:  message,
		Cause:    err,
		Context:  make(map[string]interface{}),
	}
}

// ConfigError creates a fatal configuration error.
func ConfigError(message string) *Error {
	return New(TypeConfig, SeverityCritical, message)
}

// ConfigErrorf creates a fatal configuration error with formatting.
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(TypeConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// RepositoryUnavailable wraps a failed extraction for one repository.
func RepositoryUnavailable(err error, repoID string) *Error {
	e := Wrap(err, TypeRepository, SeverityMedium, "repository unavailable")
	if e == nil {
		e = New(TypeRepository, SeverityMedium, "repository unavailable")
	}
	return e.WithContext("repo", repoID)
}

// MalformedCommit flags one unparseable raw log record.
func MalformedCommit(line string) *Error {
	return New(TypeMalformedCommit, SeverityLow, "malformed commit record").
		WithContext("line", line)
}

// StorageError wraps a run archive failure.
func StorageError(err error, message string) *Error {
	return Wrap(err, TypeStorage, SeverityMedium, message)
}

// ExternalError wraps a forge API failure.
func ExternalError(err error, message string) *Error {
	return Wrap(err, TypeExternal, SeverityMedium, message)
}

// IsFatal reports whether err should stop the run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok {
		return e.IsFatal()
	}
	return false
}

// IsRepositoryUnavailable reports whether err is a per-repository failure.
func IsRepositoryUnavailable(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == TypeRepository
}

// IsMalformedCommit reports whether err is a record-level parse failure.
func IsMalformedCommit(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == TypeMalformedCommit
}
