// Package testutil provides testing utilities for tglite.
//
// This package is intended for internal testing only and should not be imported
// by external packages.
//
// # Fake Dialer
//
// FakeDialer hands out in-memory connections whose reply is computed from the
// request line the cycle wrote:
//
//	dialer := &testutil.FakeDialer{Reply: func(req string) string {
//	    return testutil.ReplyOK(testutil.TestBot())
//	}}
//	// dialer.HostErr / dialer.AddrErr simulate connect failures
//	conn := dialer.LastConn()
//	assert.True(t, conn.Closed())
//
// # TLS Server
//
// NewTLSServer starts a raw TLS listener that answers one request line per
// connection and keeps the connection open until the client closes it:
//
//	srv := testutil.NewTLSServer(t, func(req string) string { return `{"ok":true}` })
//	srv.Addr, srv.Fingerprint, srv.RootCAs, srv.ServerName
//
// # Fake Sleeper
//
// FakeSleeper records sleep calls without actually sleeping.
//
// # Test Fixtures
//
//	testutil.TestToken        // Valid bot token format
//	testutil.TestBot()        // getMe result
//	testutil.ReplyOK(result)  // {"ok":true,"result":...}
package testutil
