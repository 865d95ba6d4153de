package resp_test

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternalApril/moonresp/internal/resp"
)

const pipelined = "*1\r\n$4\r\nping\r\n" +
	"*2\r\n$4\r\necho\r\n$11\r\nhello world\r\n" +
	"+OK\r\n" +
	":-7\r\n" +
	"$-1\r\n"

func pipelinedValues() []resp.Value {
	return []resp.Value{
		resp.MakeCommand("ping"),
		resp.MakeCommand("echo", "hello world"),
		resp.MakeSimpleString("OK"),
		resp.MakeInteger(-7),
		resp.MakeNullBulkString(),
	}
}

func readAll(t *testing.T, d *resp.Decoder) ([]resp.Value, error) {
	t.Helper()

	var out []resp.Value
	for {
		v, err := d.Read()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

func assertValues(t *testing.T, want, got []resp.Value) {
	t.Helper()

	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "value %d: got %+v, want %+v", i, got[i], want[i])
	}
}

func TestDecoder_Read(t *testing.T) {
	readers := map[string]func(io.Reader) io.Reader{
		"whole":    func(r io.Reader) io.Reader { return r },
		"one byte": iotest.OneByteReader,
		"half":     iotest.HalfReader,
		"data err": iotest.DataErrReader,
	}

	for name, wrap := range readers {
		t.Run(name, func(t *testing.T) {
			d := resp.NewDecoderSize(wrap(strings.NewReader(pipelined)), 16)

			got, err := readAll(t, d)
			require.ErrorIs(t, err, io.EOF)
			assertValues(t, pipelinedValues(), got)
		})
	}
}

func TestDecoder_UnexpectedEOF(t *testing.T) {
	d := resp.NewDecoder(strings.NewReader("+OK\r\n$5\r\nabc"))

	v, err := d.Read()
	require.NoError(t, err)
	assert.Equal(t, "OK", v.Text())

	_, err = d.Read()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, len("$5\r\nabc"), d.Buffered())

	_, err = d.Read()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecoder_ProtocolErrorIsSticky(t *testing.T) {
	d := resp.NewDecoder(strings.NewReader(":1\r\n$abc\r\n+OK\r\n"))

	v, err := d.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Integer)

	_, err = d.Read()
	require.ErrorIs(t, err, resp.ErrMalformedLength)

	_, again := d.Read()
	assert.Equal(t, err, again)
}

func TestDecoder_Buffered(t *testing.T) {
	d := resp.NewDecoder(strings.NewReader(pipelined))

	_, err := d.Read()
	require.NoError(t, err)
	assert.Equal(t, len(pipelined)-len("*1\r\n$4\r\nping\r\n"), d.Buffered())

	_, err = readAll(t, d)
	require.ErrorIs(t, err, io.EOF)
	assert.Zero(t, d.Buffered())
}

func TestDecoder_GrowsForLargeFrames(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789"), 20000)
	frame, err := resp.Encode(resp.MakeArray([]resp.Value{
		resp.MakeBulkBytes(payload),
		resp.MakeBulkString("tail"),
	}))
	require.NoError(t, err)

	d := resp.NewDecoderSize(iotest.HalfReader(bytes.NewReader(frame)), 16)
	v, err := d.Read()
	require.NoError(t, err)
	require.Len(t, v.Array, 2)
	assert.Equal(t, payload, v.Array[0].String)
	assert.Equal(t, "tail", v.Array[1].Text())
}

func TestDecoder_ParserLimits(t *testing.T) {
	d := resp.NewDecoder(strings.NewReader("$10\r\n0123456789\r\n"))
	d.Parser = resp.Parser{MaxBulkLength: 4}

	_, err := d.Read()
	require.ErrorIs(t, err, resp.ErrTooLarge)
}

func TestDecoder_ReadErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	d := resp.NewDecoder(iotest.ErrReader(boom))

	_, err := d.Read()
	require.ErrorIs(t, err, boom)
	assert.False(t, resp.IsProtocolError(err))
	assert.Equal(t, "io", resp.ErrorKind(err))
}

// chunkReader returns one scripted chunk or error per Read call, then io.EOF
type chunkReader struct {
	steps []any
	calls int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.calls >= len(r.steps) {
		return 0, io.EOF
	}
	step := r.steps[r.calls]
	r.calls++
	if err, ok := step.(error); ok {
		return 0, err
	}
	return copy(p, step.(string)), nil
}

func TestDecoder_TransientReadError(t *testing.T) {
	timeout := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("i/o timeout")}

	tests := []struct {
		name  string
		steps []any
		want  resp.Value
	}{
		{"before a frame", []any{timeout, "+OK\r\n"}, resp.MakeSimpleString("OK")},
		{"inside a frame", []any{"$5\r\nhel", timeout, "lo\r\n"}, resp.MakeBulkString("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := &chunkReader{steps: tt.steps}
			d := resp.NewDecoderSize(rd, 16)

			_, err := d.Read()
			require.ErrorIs(t, err, timeout)
			assert.False(t, resp.IsProtocolError(err))

			v, err := d.Read()
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(v), "got %+v", v)

			_, err = d.Read()
			assert.ErrorIs(t, err, io.EOF)
			assert.Equal(t, len(tt.steps)+1, rd.calls)
		})
	}
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }

func TestDecoder_NoProgress(t *testing.T) {
	d := resp.NewDecoder(emptyReader{})

	_, err := d.Read()
	require.ErrorIs(t, err, io.ErrNoProgress)
}

func TestConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close() //nolint:errcheck

	sc := resp.NewConn(server)
	defer sc.Close() //nolint:errcheck

	cc := resp.NewConn(client)

	go func() {
		_ = cc.Write(resp.MakeCommand("PING"))
		_ = cc.Write(resp.MakeCommand("ECHO", "hi"))
		_ = cc.Flush()
	}()

	v, err := sc.Read()
	require.NoError(t, err)
	assert.True(t, resp.MakeCommand("PING").Equal(v))

	v, err = sc.Read()
	require.NoError(t, err)
	assert.True(t, resp.MakeCommand("ECHO", "hi").Equal(v))
	assert.Zero(t, sc.InputBuffered())

	done := make(chan error, 1)
	go func() {
		if err := sc.Write(resp.MakeSimpleString("PONG")); err != nil {
			done <- err
			return
		}
		done <- sc.Flush()
	}()

	reply, err := cc.Read()
	require.NoError(t, err)
	assert.Equal(t, "PONG", reply.Text())
	require.NoError(t, <-done)

	require.ErrorIs(t, sc.Write(resp.MakeError("bad\r\nreply")), resp.ErrUnencodableString)
}

func TestConn_SetParser(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close() //nolint:errcheck

	sc := resp.NewConnSize(server, 64)
	defer sc.Close() //nolint:errcheck
	sc.SetParser(resp.Parser{MaxArrayLength: 1})

	go func() {
		_, _ = client.Write([]byte("*2\r\n"))
	}()

	_, err := sc.Read()
	require.ErrorIs(t, err, resp.ErrTooLarge)
}
