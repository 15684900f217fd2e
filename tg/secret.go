package tg

import (
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// SecretToken wraps a bot token so it never ends up in logs or dumps.
// Implements fmt.Stringer, fmt.GoStringer, slog.LogValuer and encoding.TextMarshaler.
type SecretToken string

// Value returns the raw token. Only the request line builder should need it.
func (s SecretToken) Value() string { return string(s) }

// String returns a redacted placeholder.
func (s SecretToken) String() string { return redacted }

// GoString returns a redacted placeholder for %#v.
func (s SecretToken) GoString() string { return `tg.SecretToken("[REDACTED]")` }

// LogValue keeps the token out of slog output.
func (s SecretToken) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalText keeps the token out of JSON/YAML dumps.
func (s SecretToken) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// IsEmpty reports whether no token is set.
func (s SecretToken) IsEmpty() bool {
	return s == ""
}

// BotID returns the numeric bot identifier that prefixes the token
// ("123456" for "123456:ABC..."). The part is public and safe to log.
func (s SecretToken) BotID() string {
	id, _, ok := strings.Cut(string(s), ":")
	if !ok {
		return ""
	}
	return id
}
