package transport

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/prilive-com/tglite/wire"
)

// Telegram endpoint used when nothing else is configured.
const (
	DefaultHost = "api.telegram.org"
	DefaultPort = 443
)

// DefaultAddr is the fixed fallback address of DefaultHost.
var DefaultAddr = netip.MustParseAddr("149.154.167.220")

// CertPolicy selects how the server certificate is verified.
type CertPolicy int

const (
	// PolicySystem verifies the chain against the platform roots (or RootCAs).
	PolicySystem CertPolicy = iota
	// PolicyFingerprint accepts only a leaf whose SHA-1 matches Fingerprint.
	PolicyFingerprint
	// PolicyInsecure skips verification entirely.
	PolicyInsecure
)

func (p CertPolicy) String() string {
	switch p {
	case PolicySystem:
		return "system"
	case PolicyFingerprint:
		return "fingerprint"
	case PolicyInsecure:
		return "insecure"
	default:
		return "unknown"
	}
}

// ErrFingerprintMismatch is returned by the handshake when the pinned
// fingerprint does not match the server leaf certificate.
var ErrFingerprintMismatch = errors.New("tglite/transport: certificate fingerprint mismatch")

// Fingerprint is the SHA-1 digest of a DER certificate.
type Fingerprint [sha1.Size]byte

// FingerprintOf computes the fingerprint of a DER certificate.
func FingerprintOf(der []byte) Fingerprint {
	return sha1.Sum(der)
}

// ParseFingerprint accepts 40 hex digits, optionally separated by ':' or ' '.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	clean := bytes.Map(func(r rune) rune {
		if r == ':' || r == ' ' {
			return -1
		}
		return r
	}, []byte(s))
	if len(clean) != hex.EncodedLen(len(fp)) {
		return fp, fmt.Errorf("tglite/transport: fingerprint must be %d hex digits", hex.EncodedLen(len(fp)))
	}
	if _, err := hex.Decode(fp[:], clean); err != nil {
		return fp, fmt.Errorf("tglite/transport: invalid fingerprint: %w", err)
	}
	return fp, nil
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Config holds dialer configuration.
type Config struct {
	// Timeouts
	ConnectTimeout time.Duration // TCP connect + TLS handshake
	ReadTimeout    time.Duration // Whole-connection deadline; bounds a blocking scan

	// ServerName is used for SNI and verification when dialing a fixed address.
	ServerName string

	// BufferSize is the size of the read and write buffers.
	BufferSize int

	// TLS
	Policy      CertPolicy
	Fingerprint Fingerprint    // Only for PolicyFingerprint
	RootCAs     *x509.CertPool // Only for PolicySystem; nil = platform roots
}

// DefaultConfig returns sensible defaults for the Telegram API.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
		ServerName:     DefaultHost,
		BufferSize:     512,
		Policy:         PolicySystem,
	}
}

// Dialer opens TLS connections. It implements wire.Dialer.
type Dialer struct {
	cfg Config
}

// NewDialer creates a dialer.
func NewDialer(cfg Config) *Dialer {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	return &Dialer{cfg: cfg}
}

// DialHost resolves host and connects to it. The certificate is checked
// against host.
func (d *Dialer) DialHost(ctx context.Context, host string, port uint16) (wire.Conn, error) {
	address := net.JoinHostPort(host, strconv.Itoa(int(port)))
	return d.dial(ctx, address, host)
}

// DialAddr connects to a fixed address. The certificate is checked against
// Config.ServerName.
func (d *Dialer) DialAddr(ctx context.Context, addr netip.AddrPort) (wire.Conn, error) {
	return d.dial(ctx, addr.String(), d.cfg.ServerName)
}

func (d *Dialer) dial(ctx context.Context, address, serverName string) (wire.Conn, error) {
	if d.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.ConnectTimeout)
		defer cancel()
	}

	td := &tls.Dialer{
		NetDialer: &net.Dialer{KeepAlive: 30 * time.Second},
		Config:    d.tlsConfig(serverName),
	}
	nc, err := td.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	if d.cfg.ReadTimeout > 0 {
		if err := nc.SetDeadline(time.Now().Add(d.cfg.ReadTimeout)); err != nil {
			nc.Close()
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	return newConn(nc, d.cfg.BufferSize), nil
}

func (d *Dialer) tlsConfig(serverName string) *tls.Config {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: serverName,
	}
	switch d.cfg.Policy {
	case PolicyInsecure:
		cfg.InsecureSkipVerify = true
	case PolicyFingerprint:
		// Chain verification is replaced by the pin.
		cfg.InsecureSkipVerify = true
		want := d.cfg.Fingerprint
		cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if len(rawCerts) == 0 || FingerprintOf(rawCerts[0]) != want {
				return ErrFingerprintMismatch
			}
			return nil
		}
	default:
		cfg.RootCAs = d.cfg.RootCAs
	}
	return cfg
}

// Conn is a buffered TLS connection. It implements wire.Conn.
type Conn struct {
	nc net.Conn
	r  *bufio.Reader
	w  *bufio.Writer
}

func newConn(nc net.Conn, size int) *Conn {
	return &Conn{
		nc: nc,
		r:  bufio.NewReaderSize(nc, size),
		w:  bufio.NewWriterSize(nc, size),
	}
}

// ReadByte blocks until a byte arrives, the peer closes or the deadline passes.
func (c *Conn) ReadByte() (byte, error) { return c.r.ReadByte() }

// Write buffers p; call Flush to send it.
func (c *Conn) Write(p []byte) (int, error) { return c.w.Write(p) }

// Flush sends buffered writes.
func (c *Conn) Flush() error { return c.w.Flush() }

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.nc.Close() }

var (
	_ wire.Dialer = (*Dialer)(nil)
	_ wire.Conn   = (*Conn)(nil)
)
