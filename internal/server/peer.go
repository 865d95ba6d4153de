package server

import (
	"net"
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/eternalApril/moonresp/internal/config"
	"github.com/eternalApril/moonresp/internal/resp"
)

// Peer represents a connected client.
// It wraps a network connection and provides synchronized methods for reading and writing RESP-encoded data
type Peer struct {
	id     string
	conn   net.Conn
	stream *resp.Conn
	mu     sync.Mutex
}

// NewPeer initializes a new client peer from a network connection, applying the protocol limits of cfg
func NewPeer(conn net.Conn, cfg config.RESPConfig) *Peer {
	stream := resp.NewConnSize(conn, cfg.ReadBufferSize)
	stream.SetParser(cfg.Parser())

	return &Peer{
		id:     uuid.NewV4().String(),
		conn:   conn,
		stream: stream,
	}
}

// ID returns the identifier used to correlate log lines of this connection
func (p *Peer) ID() string {
	return p.id
}

// RemoteAddr returns the client address
func (p *Peer) RemoteAddr() string {
	return p.conn.RemoteAddr().String()
}

// Send encodes and buffers a RESP value for the client.
// This method is thread-safe and can be called from multiple goroutines
func (p *Peer) Send(v resp.Value) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream.Write(v)
}

// ReadCommand reads and decodes the next RESP value from the client's input stream
func (p *Peer) ReadCommand() (resp.Value, error) {
	return p.stream.Read()
}

// Close terminates the underlying network connection
func (p *Peer) Close() error {
	return p.stream.Close()
}

// Flush sends all buffered data to the client
func (p *Peer) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream.Flush()
}

// InputBuffered returns the number of bytes that can be read from the current buffer
func (p *Peer) InputBuffered() int {
	return p.stream.InputBuffered()
}
