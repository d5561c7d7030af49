package grove

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeConfiguration = "configuration" // malformed schema or version table
	CodeLookup        = "lookup"        // undeclared field or index out of range
	CodeResolution    = "resolution"    // link target unreachable
	CodeTypeMismatch  = "type_mismatch" // value category does not match the field
	CodeUnsupported   = "unsupported"   // deletion, slice writes
	CodeStore         = "store"         // backing-store failure surfaced through a view
)

// Error is the single error value produced by this package. Code is one of
// the constants above; Path and Field locate the failing access when known.
type Error struct {
	Code    string
	Path    Path
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	at := e.Path.String()
	if e.Field != "" {
		at = e.Path.Child(e.Field).String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s at %s: %s: %v", e.Code, at, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, at, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// IsCode reports whether err carries the given grove error code.
func IsCode(err error, code string) bool {
	ge, ok := AsError(err)
	return ok && ge.Code == code
}

func errConfig(format string, a ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, a...)}
}

func errLookup(p Path, field, format string, a ...any) *Error {
	return &Error{Code: CodeLookup, Path: p, Field: field, Message: fmt.Sprintf(format, a...)}
}

func errResolution(p Path, field, format string, a ...any) *Error {
	return &Error{Code: CodeResolution, Path: p, Field: field, Message: fmt.Sprintf(format, a...)}
}

func errType(p Path, field, format string, a ...any) *Error {
	return &Error{Code: CodeTypeMismatch, Path: p, Field: field, Message: fmt.Sprintf(format, a...)}
}

func errUnsupported(p Path, field, format string, a ...any) *Error {
	return &Error{Code: CodeUnsupported, Path: p, Field: field, Message: fmt.Sprintf(format, a...)}
}

func errStore(p Path, field string, cause error) *Error {
	return &Error{Code: CodeStore, Path: p, Field: field, Message: "backing store", Cause: cause}
}
