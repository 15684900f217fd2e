package wire

import (
	"net/netip"
	"sync/atomic"
)

// Target is where a cycle connects: a host name for DNS mode and a fixed
// address for IP mode, sharing one port.
type Target struct {
	Host string
	Addr netip.Addr
	Port uint16
}

// AddrPort returns the fixed address and port.
func (t Target) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(t.Addr, t.Port)
}

// IsValid reports whether the fixed address is usable. The host is optional
// as long as DNS mode stays off.
func (t Target) IsValid() bool {
	return t.Addr.IsValid() && t.Port != 0
}

// Session carries the connection preference across cycles. It is owned by a
// single client and passed by pointer into every Send.
type Session struct {
	target    Target
	preferDNS atomic.Bool
}

// NewSession creates a session for target.
func NewSession(target Target, preferDNS bool) *Session {
	s := &Session{target: target}
	s.preferDNS.Store(preferDNS)
	return s
}

// Target returns the connection target.
func (s *Session) Target() Target { return s.target }

// PreferDNS reports whether the next cycle tries the host name first.
func (s *Session) PreferDNS() bool { return s.preferDNS.Load() }

// UseDNS sets the preference explicitly.
func (s *Session) UseDNS(v bool) { s.preferDNS.Store(v) }

// Downgrade switches the session to the fixed address for good. Send calls
// it after a host name attempt failed and the fixed address worked.
func (s *Session) Downgrade() { s.preferDNS.Store(false) }
