// Package validate checks request arguments before anything is sent.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/prilive-com/tglite/tg"
)

// Telegram limits.
const (
	MaxTextLength       = 4096 // characters
	MaxCallbackData     = 64   // bytes
	MaxQueryAnswerChars = 200
)

// Error is a validation failure. It unwraps to the matching tg sentinel.
type Error struct {
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation: %s - %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(field, message string, err error) *Error {
	return &Error{Field: field, Message: message, Err: err}
}

// Token checks the {bot_id}:{secret} shape of a bot token.
func Token(token string) error {
	if token == "" {
		return newError("token", "cannot be empty", tg.ErrInvalidToken)
	}

	botID, secret, ok := strings.Cut(token, ":")
	if !ok {
		return newError("token", "invalid format, expected {bot_id}:{secret}", tg.ErrInvalidToken)
	}
	if botID == "" {
		return newError("token", "bot_id cannot be empty", tg.ErrInvalidToken)
	}
	for _, c := range botID {
		if c < '0' || c > '9' {
			return newError("token", "bot_id must be numeric", tg.ErrInvalidToken)
		}
	}
	if secret == "" {
		return newError("token", "secret cannot be empty", tg.ErrInvalidToken)
	}
	return nil
}

// Text checks message text.
func Text(text string) error {
	if text == "" {
		return newError("text", "cannot be empty", tg.ErrEmptyText)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return newError("text", fmt.Sprintf("exceeds maximum length of %d characters", MaxTextLength), tg.ErrTextTooLong)
	}
	return nil
}

// CallbackQueryID checks the id passed to answerCallbackQuery.
func CallbackQueryID(id string) error {
	if id == "" {
		return newError("callback_query_id", "cannot be empty", tg.ErrEmptyQueryID)
	}
	return nil
}

// QueryAnswer checks the notification text of a callback answer. Empty is
// allowed.
func QueryAnswer(text string) error {
	if utf8.RuneCountInString(text) > MaxQueryAnswerChars {
		return newError("text", fmt.Sprintf("exceeds maximum length of %d characters", MaxQueryAnswerChars), tg.ErrTextTooLong)
	}
	return nil
}

// CallbackData checks inline keyboard callback data.
func CallbackData(data string) error {
	if data == "" {
		return newError("callback_data", "cannot be empty", nil)
	}
	if len(data) > MaxCallbackData {
		return newError("callback_data", fmt.Sprintf("exceeds maximum length of %d bytes", MaxCallbackData), nil)
	}
	return nil
}

// URL checks a URL button target.
func URL(url string) error {
	if url == "" {
		return newError("url", "cannot be empty", nil)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "tg://") {
		return newError("url", "must start with http://, https:// or tg://", nil)
	}
	return nil
}
