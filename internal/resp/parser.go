package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

// Parser decodes RESP frames out of a byte slice. A zero limit disables that check.
//
// Parser holds no state between calls: a frame that is cut short is reported as
// ErrIncomplete and decoded again from its first byte on the next call
type Parser struct {
	MaxBulkLength  int64 // longest accepted bulk string payload
	MaxArrayLength int64 // most elements accepted in one array
	MaxDepth       int   // deepest accepted array nesting
	MaxLineLength  int   // longest accepted simple string, error, integer or header line
}

// DefaultParser returns the limits a Redis server applies by default
func DefaultParser() Parser {
	return Parser{
		MaxBulkLength:  512 * 1024 * 1024,
		MaxArrayLength: 1024 * 1024,
		MaxDepth:       128,
		MaxLineLength:  64 * 1024,
	}
}

// Decode decodes the first frame of buf using DefaultParser
func Decode(buf []byte) (Value, int, error) {
	return DefaultParser().Decode(buf)
}

// Decode decodes the first frame of buf and returns it with the number of bytes it occupies.
// If buf holds only a prefix of a frame, Decode returns ErrIncomplete.
// Malformed input yields a *ProtocolError. The returned Value never aliases buf
func (p Parser) Decode(buf []byte) (Value, int, error) {
	v, n, err := p.decode(buf, 0, 0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// decode parses the frame starting at buf[pos] and returns the offset just past it
func (p Parser) decode(buf []byte, pos, depth int) (Value, int, error) {
	if pos >= len(buf) {
		return Value{}, 0, ErrIncomplete
	}

	typ := buf[pos]
	switch typ {
	case TypeSimpleString, TypeError:
		line, next, err := p.readLine(buf, pos+1)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Type: typ, String: bytes.Clone(line)}, next, nil

	case TypeInteger:
		line, next, err := p.readLine(buf, pos+1)
		if err != nil {
			return Value{}, 0, err
		}
		n, ok := parseInt(line)
		if !ok {
			return Value{}, 0, protocolError(ErrMalformedInteger, pos+1, fmt.Sprintf("%q", line))
		}
		return Value{Type: TypeInteger, Integer: n}, next, nil

	case TypeBulkString:
		return p.decodeBulkString(buf, pos)

	case TypeArray:
		return p.decodeArray(buf, pos, depth)
	}

	return Value{}, 0, protocolError(ErrUnknownType, pos, fmt.Sprintf("%q", typ))
}

func (p Parser) decodeBulkString(buf []byte, pos int) (Value, int, error) {
	n, next, err := p.readLength(buf, pos+1)
	if err != nil {
		return Value{}, 0, err
	}
	if n == -1 {
		return MakeNullBulkString(), next, nil
	}
	if p.MaxBulkLength > 0 && n > p.MaxBulkLength {
		return Value{}, 0, protocolError(ErrTooLarge, pos+1, fmt.Sprintf("bulk length %d > %d", n, p.MaxBulkLength))
	}

	remaining := int64(len(buf) - next)
	if remaining < n {
		return Value{}, 0, ErrIncomplete
	}

	end := next + int(n)
	if remaining < n+2 {
		// only the trailing \n is missing, the \r can already be checked
		if remaining == n+1 && buf[end] != '\r' {
			return Value{}, 0, protocolError(ErrUnterminatedLine, end, "bulk string payload")
		}
		return Value{}, 0, ErrIncomplete
	}
	if buf[end] != '\r' || buf[end+1] != '\n' {
		return Value{}, 0, protocolError(ErrUnterminatedLine, end, "bulk string payload")
	}

	return Value{Type: TypeBulkString, String: bytes.Clone(buf[next:end])}, end + 2, nil
}

func (p Parser) decodeArray(buf []byte, pos, depth int) (Value, int, error) {
	n, next, err := p.readLength(buf, pos+1)
	if err != nil {
		return Value{}, 0, err
	}
	if n == -1 {
		return MakeNullArray(), next, nil
	}
	if p.MaxArrayLength > 0 && n > p.MaxArrayLength {
		return Value{}, 0, protocolError(ErrTooLarge, pos+1, fmt.Sprintf("array length %d > %d", n, p.MaxArrayLength))
	}
	if p.MaxDepth > 0 && depth >= p.MaxDepth {
		return Value{}, 0, protocolError(ErrTooLarge, pos, fmt.Sprintf("nesting deeper than %d", p.MaxDepth))
	}

	// the shortest element ("+\r\n") is 3 bytes, so the declared count alone
	// must not drive the allocation
	hint := int64(len(buf)-next) / 3
	if n < hint {
		hint = n
	}
	elements := make([]Value, 0, hint)

	for i := int64(0); i < n; i++ {
		var v Value
		v, next, err = p.decode(buf, next, depth+1)
		if err != nil {
			return Value{}, 0, err
		}
		elements = append(elements, v)
	}

	return Value{Type: TypeArray, Array: elements}, next, nil
}

// readLine returns the bytes between buf[start] and the next \r\n and the offset after the terminator
func (p Parser) readLine(buf []byte, start int) ([]byte, int, error) {
	rest := buf[start:]

	i := bytes.IndexByte(rest, '\r')
	if i < 0 {
		if j := bytes.IndexByte(rest, '\n'); j >= 0 {
			return nil, 0, protocolError(ErrUnterminatedLine, start+j, "bare \\n")
		}
		if p.MaxLineLength > 0 && len(rest) > p.MaxLineLength {
			return nil, 0, protocolError(ErrTooLarge, start, fmt.Sprintf("line longer than %d", p.MaxLineLength))
		}
		return nil, 0, ErrIncomplete
	}

	if j := bytes.IndexByte(rest[:i], '\n'); j >= 0 {
		return nil, 0, protocolError(ErrUnterminatedLine, start+j, "bare \\n")
	}
	if p.MaxLineLength > 0 && i > p.MaxLineLength {
		return nil, 0, protocolError(ErrTooLarge, start, fmt.Sprintf("line longer than %d", p.MaxLineLength))
	}
	if i+1 == len(rest) {
		return nil, 0, ErrIncomplete
	}
	if rest[i+1] != '\n' {
		return nil, 0, protocolError(ErrUnterminatedLine, start+i, "\\r not followed by \\n")
	}

	return rest[:i], start + i + 2, nil
}

// readLength reads a bulk string length or array count line. -1 is the null marker, -0 is rejected
func (p Parser) readLength(buf []byte, start int) (int64, int, error) {
	line, next, err := p.readLine(buf, start)
	if err != nil {
		return 0, 0, err
	}
	n, ok := parseInt(line)
	if !ok || n < -1 || (n == 0 && line[0] == '-') {
		return 0, 0, protocolError(ErrMalformedLength, start, fmt.Sprintf("%q", line))
	}
	return n, next, nil
}

// parseInt accepts an optional leading '-' followed by decimal digits
func parseInt(b []byte) (int64, bool) {
	if len(b) == 0 || b[0] == '+' {
		return 0, false
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
