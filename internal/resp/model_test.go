package resp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eternalApril/moonresp/internal/resp"
)

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b resp.Value
		want bool
	}{
		{"same bulk", resp.MakeBulkString("a"), resp.MakeBulkString("a"), true},
		{"nil and empty bulk", resp.Value{Type: resp.TypeBulkString}, resp.MakeBulkString(""), true},
		{"null and empty bulk", resp.MakeNullBulkString(), resp.MakeBulkString(""), false},
		{"null and empty array", resp.MakeNullArray(), resp.MakeArray(nil), false},
		{"nil and empty array", resp.Value{Type: resp.TypeArray}, resp.MakeArray([]resp.Value{}), true},
		{"simple and bulk", resp.MakeSimpleString("a"), resp.MakeBulkString("a"), false},
		{"simple and error", resp.MakeSimpleString("a"), resp.MakeError("a"), false},
		{"integers", resp.MakeInteger(5), resp.MakeInteger(5), true},
		{"different integers", resp.MakeInteger(5), resp.MakeInteger(6), false},
		{"arrays", resp.MakeCommand("GET", "k"), resp.MakeCommand("GET", "k"), true},
		{"array lengths", resp.MakeCommand("GET", "k"), resp.MakeCommand("GET"), false},
		{"array elements", resp.MakeCommand("GET", "k"), resp.MakeCommand("GET", "j"), false},
		{"unknown types", resp.Value{Type: '!'}, resp.Value{Type: '!'}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestValue_Kind(t *testing.T) {
	assert.Equal(t, "simple string", resp.MakeSimpleString("").Kind())
	assert.Equal(t, "error", resp.MakeError("").Kind())
	assert.Equal(t, "integer", resp.MakeInteger(1).Kind())
	assert.Equal(t, "bulk string", resp.MakeBulkString("").Kind())
	assert.Equal(t, "null bulk string", resp.MakeNullBulkString().Kind())
	assert.Equal(t, "array", resp.MakeArray(nil).Kind())
	assert.Equal(t, "null array", resp.MakeNullArray().Kind())
	assert.Equal(t, "unknown", resp.Value{}.Kind())
}

func TestMakeErrorWrongNumberOfArguments(t *testing.T) {
	v := resp.MakeErrorWrongNumberOfArguments("get")
	assert.Equal(t, byte(resp.TypeError), v.Type)
	assert.Equal(t, "ERR wrong number of arguments for 'get' command", v.Text())
}
