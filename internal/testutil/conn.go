package testutil

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/netip"
	"strings"
	"sync"

	"github.com/prilive-com/tglite/wire"
)

// FakeConn is an in-memory wire.Conn. Its incoming bytes are produced by
// reply the first time the cycle reads, from the request flushed so far.
type FakeConn struct {
	mu      sync.Mutex
	reply   func(request string) string
	data    []byte
	pos     int
	loaded  bool
	pending bytes.Buffer
	written bytes.Buffer
	flushes int
	closed  bool

	// WriteErr, when set, fails every Write.
	WriteErr error
}

// NewFakeConn creates a connection answering with reply.
func NewFakeConn(reply func(request string) string) *FakeConn {
	return &FakeConn{reply: reply}
}

// ReadByte returns the next reply byte, io.EOF once the reply is exhausted.
func (c *FakeConn) ReadByte() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	if !c.loaded {
		c.loaded = true
		if c.reply != nil {
			c.data = []byte(c.reply(strings.TrimRight(c.written.String(), "\r\n")))
		}
	}
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Write buffers p until Flush.
func (c *FakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteErr != nil {
		return 0, c.WriteErr
	}
	return c.pending.Write(p)
}

// Flush moves buffered writes to the written log.
func (c *FakeConn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
	_, err := c.pending.WriteTo(&c.written)
	return err
}

// Close marks the connection closed.
func (c *FakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Written returns every flushed byte, line terminators included.
func (c *FakeConn) Written() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written.String()
}

// Request returns the flushed request line without its terminator.
func (c *FakeConn) Request() string {
	return strings.TrimRight(c.Written(), "\r\n")
}

// Closed reports whether Close was called.
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Flushes returns the number of Flush calls.
func (c *FakeConn) Flushes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushes
}

// Unread returns the reply bytes the cycle never consumed.
func (c *FakeConn) Unread() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.data[c.pos:])
}

// DialCall records one dial attempt.
type DialCall struct {
	ByHost bool
	Host   string
	Port   uint16
	Addr   netip.AddrPort
}

// FakeDialer is a wire.Dialer handing out FakeConns.
type FakeDialer struct {
	// HostErr and AddrErr fail DialHost and DialAddr when set.
	HostErr error
	AddrErr error
	// Reply computes the reply of every connection from its request line.
	Reply func(request string) string

	mu    sync.Mutex
	calls []DialCall
	conns []*FakeConn
}

// DialHost implements wire.Dialer.
func (d *FakeDialer) DialHost(_ context.Context, host string, port uint16) (wire.Conn, error) {
	return d.dial(DialCall{ByHost: true, Host: host, Port: port}, d.HostErr)
}

// DialAddr implements wire.Dialer.
func (d *FakeDialer) DialAddr(_ context.Context, addr netip.AddrPort) (wire.Conn, error) {
	return d.dial(DialCall{Addr: addr, Port: addr.Port()}, d.AddrErr)
}

func (d *FakeDialer) dial(call DialCall, err error) (wire.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
	if err != nil {
		return nil, err
	}
	conn := NewFakeConn(d.Reply)
	d.conns = append(d.conns, conn)
	return conn, nil
}

// Calls returns every dial attempt in order.
func (d *FakeDialer) Calls() []DialCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DialCall{}, d.calls...)
}

// HostCalls counts DialHost attempts.
func (d *FakeDialer) HostCalls() int {
	n := 0
	for _, c := range d.Calls() {
		if c.ByHost {
			n++
		}
	}
	return n
}

// AddrCalls counts DialAddr attempts.
func (d *FakeDialer) AddrCalls() int {
	return len(d.Calls()) - d.HostCalls()
}

// Conns returns every connection handed out.
func (d *FakeDialer) Conns() []*FakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*FakeConn{}, d.conns...)
}

// LastConn returns the most recent connection, or nil.
func (d *FakeDialer) LastConn() *FakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

// ChunkSource is a wire.ByteSource reading successive chunks, then io.EOF.
type ChunkSource struct {
	chunks []string
	i, j   int
}

// NewChunkSource creates a source over chunks.
func NewChunkSource(chunks ...string) *ChunkSource {
	return &ChunkSource{chunks: chunks}
}

// ReadByte implements wire.ByteSource.
func (s *ChunkSource) ReadByte() (byte, error) {
	for s.i < len(s.chunks) && s.j >= len(s.chunks[s.i]) {
		s.i++
		s.j = 0
	}
	if s.i >= len(s.chunks) {
		return 0, io.EOF
	}
	b := s.chunks[s.i][s.j]
	s.j++
	return b, nil
}

// Rest returns the bytes not read yet.
func (s *ChunkSource) Rest() string {
	if s.i >= len(s.chunks) {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.chunks[s.i][s.j:])
	for _, c := range s.chunks[s.i+1:] {
		b.WriteString(c)
	}
	return b.String()
}

var (
	_ wire.Dialer     = (*FakeDialer)(nil)
	_ wire.Conn       = (*FakeConn)(nil)
	_ wire.ByteSource = (*ChunkSource)(nil)
)
