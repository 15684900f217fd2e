// Package transport provides the TLS connections used by wire.Cycle.
//
// Certificate verification is a caller policy: platform roots (default),
// SHA-1 leaf fingerprint pinning, or no verification at all.
package transport
