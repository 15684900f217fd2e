package tglite

import (
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/prilive-com/tglite/tg"
	"github.com/prilive-com/tglite/transport"
	"github.com/prilive-com/tglite/wire"
)

// Config holds client configuration.
type Config struct {
	// Bot token
	Token tg.SecretToken `envconfig:"TGLITE_TOKEN"`

	// Connection target
	Host   string `envconfig:"TGLITE_HOST"`
	Addr   string `envconfig:"TGLITE_ADDR"`
	Port   uint16 `envconfig:"TGLITE_PORT"`
	UseDNS bool   `envconfig:"TGLITE_USE_DNS"`

	// Transport
	ConnectTimeout time.Duration `envconfig:"TGLITE_CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `envconfig:"TGLITE_READ_TIMEOUT"`
	CertPolicy     string        `envconfig:"TGLITE_CERT_POLICY"` // system, fingerprint or insecure
	Fingerprint    string        `envconfig:"TGLITE_FINGERPRINT"` // 40 hex digits, for CertPolicy=fingerprint

	// Replies
	UTF8Decoding bool `envconfig:"TGLITE_UTF8_DECODING"`

	// Rate limiting
	GlobalRPS   float64 `envconfig:"TGLITE_RATE_LIMIT_RPS"`
	GlobalBurst int     `envconfig:"TGLITE_RATE_LIMIT_BURST"`

	// Circuit breaker
	BreakerThreshold uint32        `envconfig:"TGLITE_BREAKER_THRESHOLD"` // 0 = never trips
	BreakerInterval  time.Duration `envconfig:"TGLITE_BREAKER_INTERVAL"`
	BreakerTimeout   time.Duration `envconfig:"TGLITE_BREAKER_TIMEOUT"`

	// Retry settings
	MaxRetries    int           `envconfig:"TGLITE_MAX_RETRIES"` // 0 = a single attempt per call
	RetryBaseWait time.Duration `envconfig:"TGLITE_RETRY_BASE_WAIT"`
	RetryMaxWait  time.Duration `envconfig:"TGLITE_RETRY_MAX_WAIT"`
	RetryFactor   float64       `envconfig:"TGLITE_RETRY_FACTOR"`

	// Logging
	LogLevel string `envconfig:"TGLITE_LOG_LEVEL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:             transport.DefaultHost,
		Addr:             transport.DefaultAddr.String(),
		Port:             transport.DefaultPort,
		UseDNS:           false,
		ConnectTimeout:   10 * time.Second,
		ReadTimeout:      30 * time.Second,
		CertPolicy:       transport.PolicySystem.String(),
		GlobalRPS:        30,
		GlobalBurst:      10,
		BreakerThreshold: 5,
		BreakerInterval:  60 * time.Second,
		BreakerTimeout:   30 * time.Second,
		MaxRetries:       0,
		RetryBaseWait:    time.Second,
		RetryMaxWait:     30 * time.Second,
		RetryFactor:      2.0,
		LogLevel:         "info",
	}
}

// LoadConfig starts from DefaultConfig and overrides every field whose
// TGLITE_* environment variable is set.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Token.IsEmpty() {
		return tg.NewConfigError("token", "bot token is required")
	}
	if _, err := c.Target(); err != nil {
		return err
	}
	if _, err := c.TransportConfig(); err != nil {
		return err
	}
	if c.MaxRetries < 0 {
		return tg.NewConfigError("max_retries", "cannot be negative")
	}
	if c.GlobalRPS < 0 {
		return tg.NewConfigError("rate_limit_rps", "cannot be negative")
	}
	return nil
}

// Target returns the connection target.
func (c *Config) Target() (wire.Target, error) {
	addr, err := netip.ParseAddr(c.Addr)
	if err != nil {
		return wire.Target{}, tg.NewConfigError("addr", err.Error())
	}
	if c.Port == 0 {
		return wire.Target{}, tg.NewConfigError("port", "must be set")
	}
	if c.UseDNS && c.Host == "" {
		return wire.Target{}, tg.NewConfigError("host", "required when DNS is used")
	}
	return wire.Target{Host: c.Host, Addr: addr, Port: c.Port}, nil
}

// TransportConfig returns the dialer configuration.
func (c *Config) TransportConfig() (transport.Config, error) {
	tc := transport.DefaultConfig()
	tc.ConnectTimeout = c.ConnectTimeout
	tc.ReadTimeout = c.ReadTimeout
	if c.Host != "" {
		tc.ServerName = c.Host
	}

	switch strings.ToLower(c.CertPolicy) {
	case "", "system":
		tc.Policy = transport.PolicySystem
	case "insecure":
		tc.Policy = transport.PolicyInsecure
	case "fingerprint":
		fp, err := transport.ParseFingerprint(c.Fingerprint)
		if err != nil {
			return tc, tg.NewConfigError("fingerprint", err.Error())
		}
		tc.Policy = transport.PolicyFingerprint
		tc.Fingerprint = fp
	default:
		return tc, tg.NewConfigError("cert_policy", fmt.Sprintf("unknown policy %q", c.CertPolicy))
	}
	return tc, nil
}

// SlogLevel converts LogLevel to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
