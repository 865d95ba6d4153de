// Package resp implements the Redis Serialization Protocol (RESP2).
//
// The core is a pair of pure functions: Decode turns the front of a byte slice into a
// Value (or reports ErrIncomplete when more bytes are needed), and Encode turns a Value
// back into the exact wire bytes. Decoder and Encoder adapt them to io.Reader and io.Writer
// for use on a connection.
package resp
