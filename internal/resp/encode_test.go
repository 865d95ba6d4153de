package resp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternalApril/moonresp/internal/resp"
)

func TestEncode_RejectsCRLF(t *testing.T) {
	tests := []struct {
		name  string
		input resp.Value
	}{
		{"simple string with CRLF", resp.MakeSimpleString("a\r\nb")},
		{"simple string with CR", resp.MakeSimpleString("a\rb")},
		{"simple string with LF", resp.MakeSimpleString("a\nb")},
		{"error with LF", resp.MakeError("ERR\nbad")},
		{"nested", resp.MakeArray([]resp.Value{
			resp.MakeInteger(1),
			resp.MakeArray([]resp.Value{resp.MakeError("x\r")}),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := resp.Encode(tt.input)
			require.ErrorIs(t, err, resp.ErrUnencodableString)
			assert.Empty(t, out)
			assert.Equal(t, "unencodable_string", resp.ErrorKind(err))
		})
	}
}

func TestEncode_UnknownType(t *testing.T) {
	_, err := resp.Encode(resp.Value{Type: '!'})
	require.ErrorIs(t, err, resp.ErrUnknownType)

	_, err = resp.Encode(resp.Value{})
	require.ErrorIs(t, err, resp.ErrUnknownType)
}

func TestEncode_NullScalar(t *testing.T) {
	tests := []struct {
		name  string
		input resp.Value
	}{
		{"simple string", resp.Value{Type: resp.TypeSimpleString, IsNull: true}},
		{"error", resp.Value{Type: resp.TypeError, IsNull: true}},
		{"integer", resp.Value{Type: resp.TypeInteger, IsNull: true}},
		{"nested", resp.MakeArray([]resp.Value{{Type: resp.TypeInteger, IsNull: true}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := resp.Encode(tt.input)
			require.ErrorIs(t, err, resp.ErrUnknownType)
			assert.Empty(t, out)
		})
	}
}

func TestAppendValue_LeavesDstOnError(t *testing.T) {
	dst := []byte("+prefix\r\n")

	out, err := resp.AppendValue(dst, resp.MakeArray([]resp.Value{
		resp.MakeBulkString("kept?"),
		resp.MakeSimpleString("no\n"),
	}))
	require.Error(t, err)
	assert.Equal(t, "+prefix\r\n", string(out))

	out, err = resp.AppendValue(dst, resp.MakeNullArray())
	require.NoError(t, err)
	assert.Equal(t, "+prefix\r\n*-1\r\n", string(out))
}

func TestEncode_Deterministic(t *testing.T) {
	v := resp.MakeArray([]resp.Value{
		resp.MakeBulkString("set"),
		resp.MakeNullBulkString(),
		resp.MakeArray(nil),
		resp.MakeNullArray(),
		resp.MakeInteger(-1),
	})

	first, err := resp.Encode(v)
	require.NoError(t, err)
	second, err := resp.Encode(v)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "*5\r\n$3\r\nset\r\n$-1\r\n*0\r\n*-1\r\n:-1\r\n", string(first))
}
