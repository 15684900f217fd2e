package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"

	"github.com/prilive-com/tglite/tg"
)

// Conn is one connection to the API server, exclusively owned by a cycle.
type Conn interface {
	ByteSource
	io.Writer
	// Flush pushes buffered writes to the peer.
	Flush() error
	Close() error
}

// Dialer opens connections by host name or by fixed address.
type Dialer interface {
	DialHost(ctx context.Context, host string, port uint16) (Conn, error)
	DialAddr(ctx context.Context, addr netip.AddrPort) (Conn, error)
}

// Cycle runs one request/response exchange per Send.
type Cycle struct {
	Dialer Dialer
	Hook   Hook
	Logger *slog.Logger
}

// Send connects to the session target, writes requestLine followed by CRLF
// and returns the first complete JSON object read back.
//
// When the session prefers DNS the host name is tried first and the fixed
// address second; a fixed-address success after a failed host name downgrades
// the session. If no connection can be made Send returns an error wrapping
// tg.ErrConnectFailed. If the connection ends before the object is balanced
// the error wraps tg.ErrNoJSON. The connection is flushed and closed before
// Send returns in every case. Send never retries.
func (c *Cycle) Send(ctx context.Context, sess *Session, requestLine string) ([]byte, error) {
	conn, err := c.connect(ctx, sess)
	if err != nil {
		return nil, err
	}
	defer c.release(conn)

	c.checkpoint(CheckpointPreSend)
	err = writeLine(conn, requestLine)
	c.checkpoint(CheckpointPostSend)
	if err != nil {
		c.logger().Warn("failed to write request", "error", err)
		return nil, fmt.Errorf("%w: %w", tg.ErrNoJSON, err)
	}

	body, err := Scan(conn)
	if err != nil {
		c.logger().Debug("no JSON received", "error", err)
		return nil, err
	}
	return body, nil
}

func (c *Cycle) connect(ctx context.Context, sess *Session) (Conn, error) {
	target := sess.Target()
	log := c.logger()

	if !sess.PreferDNS() {
		conn, err := c.Dialer.DialAddr(ctx, target.AddrPort())
		if err != nil {
			log.Warn("unable to connect to telegram server", "mode", "ip", "addr", target.AddrPort(), "error", err)
			return nil, fmt.Errorf("%w: %w", tg.ErrConnectFailed, err)
		}
		log.Debug("connected using fixed address", "addr", target.AddrPort())
		return conn, nil
	}

	conn, hostErr := c.Dialer.DialHost(ctx, target.Host, target.Port)
	if hostErr == nil {
		log.Debug("connected using DNS", "host", target.Host)
		return conn, nil
	}

	conn, addrErr := c.Dialer.DialAddr(ctx, target.AddrPort())
	if addrErr != nil {
		log.Warn("unable to connect to telegram server", "mode", "dns",
			"host", target.Host, "addr", target.AddrPort(), "error", errors.Join(hostErr, addrErr))
		return nil, fmt.Errorf("%w: %w", tg.ErrConnectFailed, errors.Join(hostErr, addrErr))
	}

	sess.Downgrade()
	log.Info("connected using fixed address, DNS disabled for this session",
		"host", target.Host, "addr", target.AddrPort(), "dns_error", hostErr)
	return conn, nil
}

func (c *Cycle) release(conn Conn) {
	if err := conn.Flush(); err != nil {
		c.logger().Debug("flush on release failed", "error", err)
	}
	if err := conn.Close(); err != nil {
		c.logger().Debug("close on release failed", "error", err)
	}
}

func (c *Cycle) checkpoint(cp Checkpoint) {
	if c.Hook != nil {
		c.Hook(cp)
	}
}

func (c *Cycle) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func writeLine(conn Conn, line string) error {
	if _, err := io.WriteString(conn, line+"\r\n"); err != nil {
		return err
	}
	return conn.Flush()
}
