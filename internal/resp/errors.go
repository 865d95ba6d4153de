package resp

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete is returned by Decode when the buffer ends before the frame does.
	// It is not a protocol violation: retry once more bytes have arrived
	ErrIncomplete = errors.New("incomplete frame")

	// ErrMalformedLength is returned for a bulk string length or array count that is not an integer,
	// or is negative other than the -1 null marker
	ErrMalformedLength = errors.New("malformed length")

	// ErrMalformedInteger is returned when the payload of an integer frame is not a base-10 int64
	ErrMalformedInteger = errors.New("malformed integer")

	// ErrUnknownType is returned when the leading byte is not one of + - : $ *
	ErrUnknownType = errors.New("unknown type")

	// ErrUnterminatedLine is returned when a line is not terminated by exactly \r\n
	ErrUnterminatedLine = errors.New("invalid line ending")

	// ErrUnencodableString is returned when encoding a simple string or error containing \r or \n
	ErrUnencodableString = errors.New("simple string contains CR or LF")

	// ErrTooLarge is returned when a frame exceeds one of the Parser limits
	ErrTooLarge = errors.New("frame exceeds limit")
)

// ProtocolError describes invalid input found by the parser
type ProtocolError struct {
	Err    error // one of the sentinel errors above
	Offset int   // offset in the decoded buffer where the fault was detected
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("resp: %v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("resp: %v at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func protocolError(err error, offset int, detail string) error {
	return &ProtocolError{Err: err, Offset: offset, Detail: detail}
}

// ErrorKind maps err to a stable snake_case label. Unrecognised errors map to "io"
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIncomplete):
		return "incomplete"
	case errors.Is(err, ErrMalformedLength):
		return "malformed_length"
	case errors.Is(err, ErrMalformedInteger):
		return "malformed_integer"
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrUnterminatedLine):
		return "unterminated_line"
	case errors.Is(err, ErrUnencodableString):
		return "unencodable_string"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	}
	return "io"
}

// IsProtocolError reports whether err was caused by malformed input
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
