package tglite_test

import (
	"log/slog"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/tglite"
	"github.com/prilive-com/tglite/internal/testutil"
	"github.com/prilive-com/tglite/tg"
	"github.com/prilive-com/tglite/transport"
)

func TestDefaultConfig(t *testing.T) {
	cfg := tglite.DefaultConfig()

	assert.Equal(t, "api.telegram.org", cfg.Host)
	assert.Equal(t, "149.154.167.220", cfg.Addr)
	assert.Equal(t, uint16(443), cfg.Port)
	assert.False(t, cfg.UseDNS)
	assert.False(t, cfg.UTF8Decoding)
	assert.Zero(t, cfg.MaxRetries)
	assert.Equal(t, "system", cfg.CertPolicy)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("TGLITE_TOKEN", testutil.TestToken)

	cfg, err := tglite.LoadConfig()
	require.NoError(t, err)

	want := tglite.DefaultConfig()
	want.Token = testutil.TestToken
	assert.Equal(t, want, *cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("TGLITE_TOKEN", testutil.TestToken)
	t.Setenv("TGLITE_HOST", "tg.example.org")
	t.Setenv("TGLITE_ADDR", "192.0.2.7")
	t.Setenv("TGLITE_PORT", "8443")
	t.Setenv("TGLITE_USE_DNS", "true")
	t.Setenv("TGLITE_READ_TIMEOUT", "5s")
	t.Setenv("TGLITE_UTF8_DECODING", "true")
	t.Setenv("TGLITE_MAX_RETRIES", "4")
	t.Setenv("TGLITE_RATE_LIMIT_RPS", "2.5")
	t.Setenv("TGLITE_BREAKER_THRESHOLD", "0")
	t.Setenv("TGLITE_LOG_LEVEL", "debug")

	cfg, err := tglite.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "tg.example.org", cfg.Host)
	assert.Equal(t, uint16(8443), cfg.Port)
	assert.True(t, cfg.UseDNS)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.True(t, cfg.UTF8Decoding)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.InDelta(t, 2.5, cfg.GlobalRPS, 1e-9)
	assert.Zero(t, cfg.BreakerThreshold)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	target, err := cfg.Target()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddrPort("192.0.2.7:8443"), target.AddrPort())
	assert.Equal(t, "tg.example.org", target.Host)
}

func TestLoadConfig_BadValue(t *testing.T) {
	t.Setenv("TGLITE_PORT", "not-a-port")

	_, err := tglite.LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := tglite.DefaultConfig()
	valid.Token = testutil.TestToken

	tests := []struct {
		name   string
		mutate func(*tglite.Config)
		key    string
	}{
		{"missing token", func(c *tglite.Config) { c.Token = "" }, "token"},
		{"bad address", func(c *tglite.Config) { c.Addr = "api.telegram.org" }, "addr"},
		{"zero port", func(c *tglite.Config) { c.Port = 0 }, "port"},
		{"dns without host", func(c *tglite.Config) { c.UseDNS = true; c.Host = "" }, "host"},
		{"unknown policy", func(c *tglite.Config) { c.CertPolicy = "trust-me" }, "cert_policy"},
		{"bad fingerprint", func(c *tglite.Config) { c.CertPolicy = "fingerprint"; c.Fingerprint = "abc" }, "fingerprint"},
		{"negative retries", func(c *tglite.Config) { c.MaxRetries = -1 }, "max_retries"},
		{"negative rate", func(c *tglite.Config) { c.GlobalRPS = -1 }, "rate_limit_rps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, tg.ErrInvalidConfig)
			var cfgErr *tg.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestConfig_TransportConfig(t *testing.T) {
	cfg := tglite.DefaultConfig()
	cfg.CertPolicy = "Fingerprint"
	cfg.Fingerprint = "00:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff:00:11:22:33"
	cfg.ConnectTimeout = 3 * time.Second

	tc, err := cfg.TransportConfig()
	require.NoError(t, err)
	assert.Equal(t, transport.PolicyFingerprint, tc.Policy)
	assert.Equal(t, "00112233445566778899aabbccddeeff00112233", tc.Fingerprint.String())
	assert.Equal(t, 3*time.Second, tc.ConnectTimeout)
	assert.Equal(t, "api.telegram.org", tc.ServerName)

	cfg.CertPolicy = "insecure"
	tc, err = cfg.TransportConfig()
	require.NoError(t, err)
	assert.Equal(t, transport.PolicyInsecure, tc.Policy)
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := tglite.Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := tglite.DefaultConfig()
	cfg.Token = testutil.TestToken
	cfg.UseDNS = true

	bot, err := tglite.NewFromConfig(cfg, tglite.WithDialer(&testutil.FakeDialer{}))
	require.NoError(t, err)
	assert.True(t, bot.PreferDNS())

	cfg.Token = ""
	_, err = tglite.NewFromConfig(cfg)
	assert.ErrorIs(t, err, tg.ErrInvalidToken)
}
