package scoring

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every error returned by this package is an *Error
// whose Is method matches exactly one of these.
var (
	// ErrConfiguration is returned when a weight vector cannot be normalized (sum is zero).
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidConfiguration is returned when aggregation is attempted against
	// a criterion set whose weights do not sum to 1.0.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrSchemaMismatch is returned when the decision matrix does not cover every
	// criterion for every candidate, or is otherwise malformed.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrDomain is returned for raw input outside the domain of a normalization,
	// e.g. a zero value on a cost criterion.
	ErrDomain = errors.New("domain error")
)

// Error carries the kind of a scoring failure plus enough context for an
// actionable user-facing message.
type Error struct {
	Kind      error   `json:"-"`
	Criterion string  `json:"criterion,omitempty"`
	Candidate string  `json:"candidate,omitempty"`
	Sum       float64 `json:"sum,omitempty"`
	Msg       string  `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// KindName returns a stable machine-readable name for the error kind.
func (e *Error) KindName() string {
	return KindName(e.Kind)
}

// KindName maps a sentinel kind to its wire name. Unknown errors map to "internal".
func KindName(kind error) string {
	switch {
	case errors.Is(kind, ErrConfiguration):
		return "configuration_error"
	case errors.Is(kind, ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(kind, ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(kind, ErrDomain):
		return "domain_error"
	default:
		return "internal"
	}
}

func schemaErr(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrSchemaMismatch, Msg: fmt.Sprintf(format, args...)}
}
