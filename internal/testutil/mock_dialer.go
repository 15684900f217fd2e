package testutil

import (
	"context"
	"net/netip"

	"github.com/stretchr/testify/mock"

	"github.com/prilive-com/tglite/wire"
)

// MockDialer is a mock implementation of wire.Dialer for call expectations.
// Return a *FakeConn (or nil) as the first value.
type MockDialer struct {
	mock.Mock
}

//nolint:revive
func (m *MockDialer) DialHost(ctx context.Context, host string, port uint16) (wire.Conn, error) {
	args := m.Called(ctx, host, port)
	return conn(args.Get(0)), args.Error(1)
}

//nolint:revive
func (m *MockDialer) DialAddr(ctx context.Context, addr netip.AddrPort) (wire.Conn, error) {
	args := m.Called(ctx, addr)
	return conn(args.Get(0)), args.Error(1)
}

func conn(v any) wire.Conn {
	c, ok := v.(*FakeConn)
	if !ok || c == nil {
		return nil
	}
	return c
}

var _ wire.Dialer = (*MockDialer)(nil)
