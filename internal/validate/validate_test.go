package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prilive-com/tglite/internal/validate"
	"github.com/prilive-com/tglite/tg"
)

func TestToken(t *testing.T) {
	assert.NoError(t, validate.Token("123456:ABC-DEF"))

	for _, bad := range []string{"", "123456", ":ABC", "12a4:ABC", "123456:"} {
		err := validate.Token(bad)
		assert.ErrorIs(t, err, tg.ErrInvalidToken, "token %q", bad)
	}
}

func TestText(t *testing.T) {
	assert.NoError(t, validate.Text("hi"))
	assert.NoError(t, validate.Text(strings.Repeat("д", validate.MaxTextLength)), "counted in characters")
	assert.ErrorIs(t, validate.Text(""), tg.ErrEmptyText)
	assert.ErrorIs(t, validate.Text(strings.Repeat("a", validate.MaxTextLength+1)), tg.ErrTextTooLong)
}

func TestCallbackQueryID(t *testing.T) {
	assert.NoError(t, validate.CallbackQueryID("42"))
	assert.ErrorIs(t, validate.CallbackQueryID(""), tg.ErrEmptyQueryID)
}

func TestQueryAnswer(t *testing.T) {
	assert.NoError(t, validate.QueryAnswer(""))
	assert.ErrorIs(t, validate.QueryAnswer(strings.Repeat("x", 201)), tg.ErrTextTooLong)
}

func TestCallbackData(t *testing.T) {
	assert.NoError(t, validate.CallbackData("answer:yes"))
	assert.Error(t, validate.CallbackData(""))
	assert.Error(t, validate.CallbackData(strings.Repeat("x", 65)))
}

func TestURL(t *testing.T) {
	assert.NoError(t, validate.URL("https://core.telegram.org"))
	assert.NoError(t, validate.URL("tg://user?id=1"))
	assert.Error(t, validate.URL("ftp://example.com"))

	var vErr *validate.Error
	assert.ErrorAs(t, validate.URL(""), &vErr)
	assert.Equal(t, "url", vErr.Field)
}
