package domain

import "errors"

// Kind sentinels. Every error that should reach a client with a non-500
// status unwraps to exactly one of these.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflicting update")
	ErrRateLimited     = errors.New("too many attempts")
)

// ErrStaleWrite is returned by repositories when an update matched no row.
// Services resolve it into ErrNotFound or ErrConflict; it is unclassified on its own.
var ErrStaleWrite = errors.New("no record matched the update")

// Kind is the failure class an error belongs to.
type Kind int

const (
	KindUnclassified Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidArgument
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindConflict:
		return "Conflict"
	case KindRateLimited:
		return "RateLimited"
	default:
		return "Unclassified"
	}
}

// classification order matters: first match wins.
var classification = []struct {
	sentinel error
	kind     Kind
}{
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrForbidden, KindForbidden},
	{ErrNotFound, KindNotFound},
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrConflict, KindConflict},
	{ErrRateLimited, KindRateLimited},
}

// Classify returns the kind of err. It depends only on the error chain,
// never on where the error was raised.
func Classify(err error) Kind {
	if err == nil {
		return KindUnclassified
	}
	for _, c := range classification {
		if errors.Is(err, c.sentinel) {
			return c.kind
		}
	}
	return KindUnclassified
}

// Error is a classified error with a message that is safe to show to clients.
type Error struct {
	kind error
	msg  string
}

// NewError returns an error of the given kind sentinel with a public message.
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Invalid is shorthand for an InvalidArgument error.
func Invalid(msg string) *Error {
	return NewError(ErrInvalidArgument, msg)
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// PublicMessage returns the client-facing message for a classified error:
// the first *Error message in the chain, otherwise the kind sentinel text.
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.msg
	}
	for _, c := range classification {
		if errors.Is(err, c.sentinel) {
			return c.sentinel.Error()
		}
	}
	return "internal server error"
}

// Entity-specific errors.
var (
	ErrCategoryNotFound = NewError(ErrNotFound, "category not found")
	ErrProductNotFound  = NewError(ErrNotFound, "product not found")
	ErrUserNotFound     = NewError(ErrNotFound, "user not found")

	ErrUsernameTaken      = NewError(ErrConflict, "username already exists")
	ErrConcurrentUpdate   = NewError(ErrConflict, "record was modified concurrently")
	ErrInvalidCredentials = NewError(ErrUnauthenticated, "invalid username or password")
	ErrRegistrationClosed = NewError(ErrForbidden, "an admin token is required to create users")
	ErrLoginLocked        = NewError(ErrRateLimited, "too many failed login attempts, try again later")
	ErrIDMismatch         = Invalid("path id does not match body id")
	ErrUnknownCategory    = Invalid("category_id does not reference an existing category")
)
