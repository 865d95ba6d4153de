package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

var (
	crlf            = []byte("\r\n")
	nullBulkString  = []byte("$-1\r\n")
	nullArray       = []byte("*-1\r\n")
	simpleForbidden = "\r\n"
)

// Encode returns the wire bytes of v
func Encode(v Value) ([]byte, error) {
	return AppendValue(nil, v)
}

// AppendValue appends the wire bytes of v to dst.
// On error dst is returned unchanged, nothing of v is appended
func AppendValue(dst []byte, v Value) ([]byte, error) {
	out, err := appendValue(dst, v)
	if err != nil {
		return dst, err
	}
	return out, nil
}

func appendValue(dst []byte, v Value) ([]byte, error) {
	// only bulk strings and arrays have a null form
	if v.IsNull && v.Type != TypeBulkString && v.Type != TypeArray {
		return dst, fmt.Errorf("resp: encode null %s: %w", v.Kind(), ErrUnknownType)
	}

	switch v.Type {
	case TypeSimpleString, TypeError:
		if bytes.ContainsAny(v.String, simpleForbidden) {
			return dst, fmt.Errorf("resp: encode %s %q: %w", v.Kind(), v.String, ErrUnencodableString)
		}
		dst = append(dst, v.Type)
		dst = append(dst, v.String...)
		return append(dst, crlf...), nil

	case TypeInteger:
		return appendHeader(dst, TypeInteger, v.Integer), nil

	case TypeBulkString:
		if v.IsNull {
			return append(dst, nullBulkString...), nil
		}
		dst = appendHeader(dst, TypeBulkString, int64(len(v.String)))
		dst = append(dst, v.String...)
		return append(dst, crlf...), nil

	case TypeArray:
		if v.IsNull {
			return append(dst, nullArray...), nil
		}
		dst = appendHeader(dst, TypeArray, int64(len(v.Array)))
		var err error
		for _, el := range v.Array {
			if dst, err = appendValue(dst, el); err != nil {
				return dst, err
			}
		}
		return dst, nil
	}

	return dst, fmt.Errorf("resp: encode type %q: %w", v.Type, ErrUnknownType)
}

// appendHeader writes the type prefix, numeric value, and CRLF
func appendHeader(dst []byte, prefix byte, n int64) []byte {
	dst = append(dst, prefix)
	dst = strconv.AppendInt(dst, n, 10)
	return append(dst, crlf...)
}
