// Package tg provides the Telegram types shared by the wire layer and the bot client.
//
// This package contains:
//   - The API types the client reads (Response, Update, Message, User, ...)
//   - Error types and sentinel errors
//   - SecretToken for safe token handling
//   - Inline and reply keyboard builders
//
// # Usage
//
//	import "github.com/prilive-com/tglite/tg"
//
//	kb := tg.NewInlineKeyboard()
//	kb.AddButton("Docs", "https://core.telegram.org/bots/api", tg.InlineButtonURL)
//	kb.AddRow()
//	kb.AddButton("Ping", "ping", tg.InlineButtonQuery)
//	markup := kb.Markup()
package tg
