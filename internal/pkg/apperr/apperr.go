package apperr

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindPermissionDenied
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// Error is a client-facing failure. Fields carries per-field messages for
// validation failures.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
}

// Generic sentinels, one per kind. errors.Is(err, ErrNotFound) is true for
// every not-found error regardless of its code.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrAuthentication   = &Error{Kind: KindAuthentication}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrNotFound         = &Error{Kind: KindNotFound}
)

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "Invalid request data",
		Fields:  fields,
	}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches on kind, and on code when the target has one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithField returns a copy of e with one more field message.
func (e *Error) WithField(field, message string) *Error {
	fields := make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[field] = message
	cp := *e
	cp.Fields = fields
	return &cp
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}
