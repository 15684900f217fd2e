// Package scrub removes bot tokens from strings and errors before they are logged.
package scrub

import (
	"strings"

	"github.com/prilive-com/tglite/tg"
)

const placeholder = "[REDACTED]"

// String replaces every occurrence of the token in s. Request lines carry the
// token in their path and go through here before being logged.
func String(s string, token tg.SecretToken) string {
	tokenVal := token.Value()
	if tokenVal == "" {
		return s
	}
	return strings.ReplaceAll(s, tokenVal, placeholder)
}

// TokenFromError removes the bot token from error messages.
// Dial and I/O errors may quote the request they were part of.
// Preserves the error chain for errors.Is/As via Unwrap().
func TokenFromError(err error, token tg.SecretToken) error {
	if err == nil {
		return nil
	}
	tokenVal := token.Value()
	if tokenVal == "" {
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, tokenVal) {
		return &scrubbedError{
			msg: strings.ReplaceAll(msg, tokenVal, placeholder),
			err: err,
		}
	}
	return err
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }
