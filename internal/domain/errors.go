package domain

import "errors"

// Error kinds. Every error surfaced to a caller unwraps to one of these.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Error carries a human-readable message and the kind it belongs to. An
// optional code overrides the kind's default API error code.
type Error struct {
	Kind error
	Msg  string
	code string
}

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func NewCodedError(kind error, code, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, code: code}
}

func (e *Error) Code() string { return e.code }

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// KindOf returns the taxonomy kind of err, or nil for unclassified errors.
func KindOf(err error) error {
	for _, k := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrInvalidArgument, ErrInvalidOperation} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
