package resp

import "bytes"

const (
	TypeSimpleString = '+'
	TypeError        = '-'
	TypeInteger      = ':'
	TypeBulkString   = '$'
	TypeArray        = '*'
)

// Value is a single RESP frame. Type selects which payload field is meaningful
type Value struct {
	String  []byte // SimpleString, Error, BulkString
	Array   []Value
	Integer int64 // Integer
	Type    byte
	IsNull  bool // For nil BulkString and nil Array
}

// Equal reports whether v and o describe the same frame.
// A null frame never equals an empty one, but a nil and an empty payload slice do
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type || v.IsNull != o.IsNull {
		return false
	}
	if v.IsNull {
		return true
	}

	switch v.Type {
	case TypeSimpleString, TypeError, TypeBulkString:
		return bytes.Equal(v.String, o.String)
	case TypeInteger:
		return v.Integer == o.Integer
	case TypeArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	}

	return false
}

// Kind returns the name of the variant, e.g. "null bulk string"
func (v Value) Kind() string {
	switch v.Type {
	case TypeSimpleString:
		return "simple string"
	case TypeError:
		return "error"
	case TypeInteger:
		return "integer"
	case TypeBulkString:
		if v.IsNull {
			return "null bulk string"
		}
		return "bulk string"
	case TypeArray:
		if v.IsNull {
			return "null array"
		}
		return "array"
	}
	return "unknown"
}

// Text returns the string payload
func (v Value) Text() string {
	return string(v.String)
}
