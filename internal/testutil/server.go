package testutil

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"

	"github.com/prilive-com/tglite/transport"
)

// TLSServer is a raw TLS listener speaking the bare request-line protocol:
// it reads one line, writes the handler's reply and waits for the client to
// hang up.
type TLSServer struct {
	Addr        netip.AddrPort
	ServerName  string
	RootCAs     *x509.CertPool
	Fingerprint transport.Fingerprint

	ln       net.Listener
	handler  func(request string) string
	mu       sync.Mutex
	requests []string
	wg       sync.WaitGroup
}

// NewTLSServer starts a server on 127.0.0.1 using the httptest certificate.
// The server is closed when the test completes.
func NewTLSServer(t *testing.T, handler func(request string) string) *TLSServer {
	t.Helper()

	hs := httptest.NewUnstartedServer(nil)
	hs.StartTLS()
	cert := hs.TLS.Certificates[0]
	roots := x509.NewCertPool()
	roots.AddCert(hs.Certificate())
	hs.Close()

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &TLSServer{
		Addr:        netip.MustParseAddrPort(ln.Addr().String()),
		ServerName:  "example.com",
		RootCAs:     roots,
		Fingerprint: transport.FingerprintOf(cert.Certificate[0]),
		ln:          ln,
		handler:     handler,
	}

	s.wg.Go(s.serve)
	t.Cleanup(s.Close)
	return s
}

// Close stops accepting and waits for open connections to finish.
func (s *TLSServer) Close() {
	s.ln.Close()
	s.wg.Wait()
}

// Requests returns every request line received, terminators stripped.
func (s *TLSServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.requests...)
}

func (s *TLSServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Go(func() { s.handle(conn) })
	}
}

func (s *TLSServer) handle(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	req := strings.TrimRight(line, "\r\n")

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if _, err := io.WriteString(conn, s.handler(req)); err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, conn)
}
