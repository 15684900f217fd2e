// Package tglite is a small Telegram Bot API client that talks to the API
// server over a single raw TLS exchange per call.
//
// Each call writes one request line and reads the reply byte by byte until
// the first JSON object closes. There is no HTTP framing and no connection
// reuse, which keeps the client usable on links where only a plain TLS socket
// is available.
//
// # Quick Start
//
//	bot, err := tglite.New(token, tglite.WithDNS(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for ctx.Err() == nil {
//	    msg, err := bot.GetNewMessage(ctx)
//	    if err != nil || msg.IsEmpty() {
//	        select {
//	        case <-ctx.Done():
//	        case <-time.After(time.Second):
//	        }
//	        continue
//	    }
//	    bot.SendMessage(ctx, msg.ChatID(), "Echo: "+msg.Text, nil)
//	}
//
// # Address Fallback
//
// With DNS enabled a cycle first dials the host name. When that fails and
// the fixed address answers, the bot stops using DNS until UseDNS(true) is
// called again.
//
// # Configuration
//
// LoadConfig reads TGLITE_* environment variables on top of DefaultConfig:
//
//	cfg, err := tglite.LoadConfig()
//	bot, err := tglite.NewFromConfig(*cfg)
//
// # Features
//
//   - Streaming brace scanner, no full-body buffering
//   - Sticky DNS to fixed address fallback
//   - Optional \uXXXX rewriting of replies for byte-level consumers
//   - Circuit breaker with sony/gobreaker
//   - Global rate limiting
//   - Retry with exponential backoff and crypto jitter
//   - Token auto-redaction in logs and errors
//   - Structured logging with slog
package tglite
