package transport_test

import (
	"context"
	"crypto/sha1"
	"io"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/tglite/internal/testutil"
	"github.com/prilive-com/tglite/transport"
	"github.com/prilive-com/tglite/wire"
)

func newServer(t *testing.T) *testutil.TLSServer {
	return testutil.NewTLSServer(t, func(req string) string {
		return `{"ok":true,"result":"` + req + `"}`
	})
}

func exchange(t *testing.T, conn wire.Conn, line string) string {
	t.Helper()
	defer conn.Close()

	_, err := io.WriteString(conn, line+"\r\n")
	require.NoError(t, err)
	require.NoError(t, conn.Flush())

	body, err := wire.Scan(conn)
	require.NoError(t, err)
	return string(body)
}

func TestDialer_SystemPolicyWithRoots(t *testing.T) {
	srv := newServer(t)
	cfg := transport.DefaultConfig()
	cfg.ServerName = srv.ServerName
	cfg.RootCAs = srv.RootCAs

	conn, err := transport.NewDialer(cfg).DialAddr(context.Background(), srv.Addr)
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true,"result":"GET /botX/getMe"}`, exchange(t, conn, "GET /botX/getMe"))
	assert.Equal(t, []string{"GET /botX/getMe"}, srv.Requests())
}

func TestDialer_DialHost(t *testing.T) {
	srv := newServer(t)
	cfg := transport.DefaultConfig()
	cfg.RootCAs = srv.RootCAs

	conn, err := transport.NewDialer(cfg).DialHost(context.Background(), srv.Addr.Addr().String(), srv.Addr.Port())
	require.NoError(t, err)
	assert.Contains(t, exchange(t, conn, "ping"), `"ping"`)
}

func TestDialer_UnknownAuthority(t *testing.T) {
	srv := newServer(t)
	cfg := transport.DefaultConfig()
	cfg.ServerName = srv.ServerName

	_, err := transport.NewDialer(cfg).DialAddr(context.Background(), srv.Addr)
	require.Error(t, err)
}

func TestDialer_ServerNameMismatch(t *testing.T) {
	srv := newServer(t)
	cfg := transport.DefaultConfig()
	cfg.ServerName = "api.telegram.org"
	cfg.RootCAs = srv.RootCAs

	_, err := transport.NewDialer(cfg).DialAddr(context.Background(), srv.Addr)
	require.Error(t, err)
}

func TestDialer_FingerprintPolicy(t *testing.T) {
	srv := newServer(t)

	t.Run("match", func(t *testing.T) {
		cfg := transport.DefaultConfig()
		cfg.Policy = transport.PolicyFingerprint
		cfg.Fingerprint = srv.Fingerprint

		conn, err := transport.NewDialer(cfg).DialAddr(context.Background(), srv.Addr)
		require.NoError(t, err)
		assert.Contains(t, exchange(t, conn, "pinned"), `"pinned"`)
	})

	t.Run("mismatch", func(t *testing.T) {
		cfg := transport.DefaultConfig()
		cfg.Policy = transport.PolicyFingerprint
		cfg.Fingerprint = transport.Fingerprint{0x01}

		_, err := transport.NewDialer(cfg).DialAddr(context.Background(), srv.Addr)
		assert.ErrorIs(t, err, transport.ErrFingerprintMismatch)
	})
}

func TestDialer_InsecurePolicy(t *testing.T) {
	srv := newServer(t)
	cfg := transport.DefaultConfig()
	cfg.Policy = transport.PolicyInsecure

	conn, err := transport.NewDialer(cfg).DialAddr(context.Background(), srv.Addr)
	require.NoError(t, err)
	assert.Contains(t, exchange(t, conn, "anything"), `"anything"`)
}

func TestDialer_ConnectRefused(t *testing.T) {
	srv := newServer(t)
	addr := srv.Addr
	srv.Close()

	cfg := transport.DefaultConfig()
	cfg.Policy = transport.PolicyInsecure
	cfg.ConnectTimeout = time.Second

	_, err := transport.NewDialer(cfg).DialAddr(context.Background(), addr)
	require.Error(t, err)
}

func TestDialer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := transport.NewDialer(transport.DefaultConfig()).DialAddr(ctx, netip.MustParseAddrPort("127.0.0.1:1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFingerprint(t *testing.T) {
	want := transport.FingerprintOf([]byte("certificate"))
	plain := want.String()
	assert.Len(t, plain, 2*sha1.Size)

	var colons []string
	for i := 0; i < len(plain); i += 2 {
		colons = append(colons, strings.ToUpper(plain[i:i+2]))
	}

	tests := []struct {
		name string
		in   string
	}{
		{"plain", plain},
		{"colons upper case", strings.Join(colons, ":")},
		{"spaces", strings.Join(colons, " ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transport.ParseFingerprint(tt.in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseFingerprint_Invalid(t *testing.T) {
	for _, in := range []string{"", "abcd", strings.Repeat("zz", sha1.Size), strings.Repeat("a", 41)} {
		_, err := transport.ParseFingerprint(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestCertPolicy_String(t *testing.T) {
	assert.Equal(t, "system", transport.PolicySystem.String())
	assert.Equal(t, "fingerprint", transport.PolicyFingerprint.String())
	assert.Equal(t, "insecure", transport.PolicyInsecure.String())
	assert.Equal(t, "unknown", transport.CertPolicy(9).String())
}

func TestDefaultConfig(t *testing.T) {
	cfg := transport.DefaultConfig()
	assert.Equal(t, transport.DefaultHost, cfg.ServerName)
	assert.Equal(t, transport.PolicySystem, cfg.Policy)
	assert.Equal(t, "149.154.167.220", transport.DefaultAddr.String())
}
