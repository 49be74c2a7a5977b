package syntax

import "fmt"

// ErrorCode describes a failure to parse a pattern.
type ErrorCode string

const (
	ErrInvalidEscape         ErrorCode = "invalid escape sequence"
	ErrInvalidClass          ErrorCode = "invalid character class"
	ErrInvalidRepeat         ErrorCode = "invalid repeat count"
	ErrRepeatSize            ErrorCode = "repeat count too large"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrNamedGroup            ErrorCode = "named groups are not supported"
	ErrUnsupportedGroup      ErrorCode = "unsupported group syntax"
	ErrInvalidRange          ErrorCode = "invalid integer range"
	ErrInvalidHook           ErrorCode = "invalid hook"
	ErrInvalidName           ErrorCode = "invalid pattern name"
	ErrUnknownName           ErrorCode = "unknown pattern name"
	ErrUnexpectedChar        ErrorCode = "unexpected character"
)

// Error reports a parse failure at byte offset Pos of Pattern.
type Error struct {
	Code    ErrorCode
	Pos     int
	Pattern string
}

// Error renders the code, the offset and the unparsed remainder.
func (e *Error) Error() string {
	pos := min(max(e.Pos, 0), len(e.Pattern))
	return fmt.Sprintf("%s @%d: %s", e.Code, e.Pos, e.Pattern[pos:])
}

// Is matches any *Error with the same Code, so callers can write
// errors.Is(err, &syntax.Error{Code: syntax.ErrUnknownName}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
