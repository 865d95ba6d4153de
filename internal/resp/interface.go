package resp

import "io"

type Reader interface {
	Read() (Value, error)
}

type Writer interface {
	Write(v Value) error
}

type Stream interface {
	Reader
	Writer
	io.Closer
}

var _ Stream = (*Conn)(nil)

// Conn pairs a Decoder and an Encoder over one duplex byte stream.
// Read and Write may be used from two goroutines at once; neither is safe for concurrent use by itself
type Conn struct {
	rwc io.ReadWriteCloser
	dec *Decoder
	enc *Encoder
}

// NewConn wraps rwc, usually a net.Conn
func NewConn(rwc io.ReadWriteCloser) *Conn {
	return NewConnSize(rwc, defaultBufferSize)
}

// NewConnSize wraps rwc with a read buffer of the given initial size
func NewConnSize(rwc io.ReadWriteCloser, size int) *Conn {
	return &Conn{
		rwc: rwc,
		dec: NewDecoderSize(rwc, size),
		enc: NewEncoder(rwc),
	}
}

// SetParser replaces the decoding limits
func (c *Conn) SetParser(p Parser) {
	c.dec.Parser = p
}

// Read returns the next frame from the peer
func (c *Conn) Read() (Value, error) {
	return c.dec.Read()
}

// Write buffers v. Nothing is sent before Flush
func (c *Conn) Write(v Value) error {
	return c.enc.Write(v)
}

// Flush sends all buffered frames
func (c *Conn) Flush() error {
	return c.enc.Flush()
}

// InputBuffered returns the number of received bytes not decoded yet
func (c *Conn) InputBuffered() int {
	return c.dec.Buffered()
}

// Close closes the underlying stream without flushing
func (c *Conn) Close() error {
	return c.rwc.Close()
}
