package testutil

import (
	"encoding/json"

	"github.com/prilive-com/tglite/tg"
)

// TelegramEnvelope is the standard Telegram API response format.
type TelegramEnvelope struct {
	OK          bool   `json:"ok"`
	Result      any    `json:"result,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// ReplyOK returns a successful reply carrying result.
func ReplyOK(result any) string {
	return encode(TelegramEnvelope{OK: true, Result: result})
}

// ReplyError returns an error reply.
func ReplyError(code int, description string) string {
	return encode(TelegramEnvelope{ErrorCode: code, Description: description})
}

// ReplyUpdates returns a getUpdates reply.
func ReplyUpdates(updates ...tg.Update) string {
	if updates == nil {
		updates = []tg.Update{}
	}
	return ReplyOK(updates)
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
