package resp

import (
	"bufio"
	"io"
)

// maxScratch bounds the encode buffer kept between writes
const maxScratch = 64 * 1024

// Encoder handles the serialization of RESP Value objects into an output stream
type Encoder struct {
	writer  *bufio.Writer
	scratch []byte
}

// NewEncoder initializes an Encoder with a buffered writer
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		writer: bufio.NewWriter(w)}
}

// Write serializes a RESP Value into the buffer. Either the whole frame is buffered or,
// on error, nothing is. Call Flush to send buffered frames
func (e *Encoder) Write(v Value) error {
	b, err := AppendValue(e.scratch[:0], v)
	if err != nil {
		return err
	}
	if cap(b) <= maxScratch {
		e.scratch = b
	}

	_, err = e.writer.Write(b)
	return err
}

// Flush sends all buffered frames to the underlying writer
func (e *Encoder) Flush() error {
	return e.writer.Flush()
}

// Buffered returns the number of bytes waiting for Flush
func (e *Encoder) Buffered() int {
	return e.writer.Buffered()
}
