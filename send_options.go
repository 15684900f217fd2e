package tglite

import (
	"net/url"
	"strconv"

	"github.com/prilive-com/tglite/tg"
)

// SendOption adds optional sendMessage parameters.
type SendOption func(url.Values)

// WithParseMode sets the text formatting mode.
func WithParseMode(mode tg.ParseMode) SendOption {
	return func(p url.Values) {
		if mode != tg.ParseModeNone {
			p.Set("parse_mode", mode.String())
		}
	}
}

// WithReplyTo sends the message as a reply to messageID.
func WithReplyTo(messageID int) SendOption {
	return func(p url.Values) {
		p.Set("reply_to_message_id", strconv.Itoa(messageID))
	}
}

// Silent delivers the message without a notification sound.
func Silent() SendOption {
	return func(p url.Values) {
		p.Set("disable_notification", "true")
	}
}
