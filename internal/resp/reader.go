package resp

import (
	"errors"
	"io"
)

const (
	defaultBufferSize = 4096
	minBufferSize     = 16

	// a drained buffer grown beyond this is released back to the initial size
	maxIdleBufferSize = 1024 * 1024

	maxConsecutiveEmptyReads = 100
)

var errNegativeRead = errors.New("resp: reader returned negative count from Read")

// Decoder reads RESP frames from an io.Reader.
// It owns its read buffer, so one Decoder serves exactly one stream
type Decoder struct {
	Parser Parser // limits applied to every frame

	rd   io.Reader
	buf  []byte
	r, w int // unread window is buf[r:w]
	size int
	err  error
}

// NewDecoder returns a Decoder with a default sized buffer and DefaultParser limits
func NewDecoder(rd io.Reader) *Decoder {
	return NewDecoderSize(rd, defaultBufferSize)
}

// NewDecoderSize returns a Decoder whose buffer starts at size bytes. The buffer grows as frames require
func NewDecoderSize(rd io.Reader, size int) *Decoder {
	if size < minBufferSize {
		size = minBufferSize
	}
	return &Decoder{
		Parser: DefaultParser(),
		rd:     rd,
		buf:    make([]byte, size),
		size:   size,
	}
}

// Read returns the next complete frame, reading from the underlying reader as often as needed.
//
// io.EOF is returned only at a frame boundary; a stream that ends inside a frame yields
// io.ErrUnexpectedEOF. A *ProtocolError is permanent: every later call returns it again.
// Other read errors are returned once and keep the bytes buffered so far
func (d *Decoder) Read() (Value, error) {
	if d.err != nil && IsProtocolError(d.err) {
		return Value{}, d.err
	}

	for {
		if d.w > d.r {
			v, n, err := d.Parser.Decode(d.buf[d.r:d.w])
			if err == nil {
				d.consume(n)
				return v, nil
			}
			if !errors.Is(err, ErrIncomplete) {
				d.err = err
				return Value{}, err
			}
		}

		if d.err != nil {
			return Value{}, d.readErr()
		}
		d.fill()
	}
}

// Buffered returns the number of bytes already read from the stream but not yet decoded
func (d *Decoder) Buffered() int {
	return d.w - d.r
}

func (d *Decoder) consume(n int) {
	d.r += n
	if d.r < d.w {
		return
	}

	d.r, d.w = 0, 0
	if len(d.buf) > maxIdleBufferSize {
		d.buf = make([]byte, d.size)
	}
}

// fill reads a new chunk into the buffer, compacting or growing it first
func (d *Decoder) fill() {
	if d.r > 0 {
		copy(d.buf, d.buf[d.r:d.w])
		d.w -= d.r
		d.r = 0
	}

	if d.w == len(d.buf) {
		grown := make([]byte, 2*len(d.buf))
		copy(grown, d.buf[:d.w])
		d.buf = grown
	}

	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := d.rd.Read(d.buf[d.w:])
		if n < 0 {
			d.err = errNegativeRead
			return
		}
		d.w += n
		if err != nil {
			d.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	d.err = io.ErrNoProgress
}

// readErr returns the pending read error. io.EOF stays pending, any other error is
// reported once so a later Read may retry, e.g. after a read deadline expires
func (d *Decoder) readErr() error {
	err := d.err
	if errors.Is(err, io.EOF) {
		if d.w > d.r {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	d.err = nil
	return err
}
