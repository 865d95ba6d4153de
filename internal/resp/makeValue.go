package resp

import "fmt"

// MakeSimpleString construct SimpleString Value from string
func MakeSimpleString(s string) Value {
	return Value{
		Type:   TypeSimpleString,
		String: []byte(s),
	}
}

// MakeError construct Error Value from string
func MakeError(s string) Value {
	return Value{
		Type:   TypeError,
		String: []byte(s),
	}
}

// MakeErrorf construct Error Value from a format string
func MakeErrorf(format string, args ...any) Value {
	return MakeError(fmt.Sprintf(format, args...))
}

// MakeErrorWrongNumberOfArguments construct Error Value that command had wrong number of arguments for command
func MakeErrorWrongNumberOfArguments(cmd string) Value {
	return MakeErrorf("ERR wrong number of arguments for '%s' command", cmd)
}

// MakeBulkString construct BulkString Value from string
func MakeBulkString(s string) Value {
	return MakeBulkBytes([]byte(s))
}

// MakeBulkBytes construct BulkString Value from raw bytes. b is not copied
func MakeBulkBytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{
		Type:   TypeBulkString,
		String: b,
	}
}

// MakeNullBulkString construct nil BulkSting Value
func MakeNullBulkString() Value {
	return Value{
		Type:   TypeBulkString,
		IsNull: true,
	}
}

// MakeInteger construct Integer Value from int64
func MakeInteger(n int64) Value {
	return Value{
		Type:    TypeInteger,
		Integer: n,
	}
}

// MakeArray creates a standard RESP array containing the provided elements
func MakeArray(values []Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{
		Type:  TypeArray,
		Array: values,
	}
}

// MakeNullArray construct nil Array Value
func MakeNullArray() Value {
	return Value{
		Type:   TypeArray,
		IsNull: true,
	}
}

// MakeCommand builds a client request: an array of bulk strings
func MakeCommand(name string, args ...string) Value {
	elements := make([]Value, 0, 1+len(args))
	elements = append(elements, MakeBulkString(name))
	for _, arg := range args {
		elements = append(elements, MakeBulkString(arg))
	}
	return MakeArray(elements)
}
