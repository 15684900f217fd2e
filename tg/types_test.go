package tg_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/tglite/tg"
)

func TestResponse_Unmarshal(t *testing.T) {
	var resp tg.Response
	err := json.Unmarshal([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 3","parameters":{"retry_after":3}}`), &resp)
	require.NoError(t, err)

	assert.False(t, resp.OK)
	assert.Equal(t, 429, resp.ErrorCode)
	require.NotNil(t, resp.Parameters)
	assert.Equal(t, 3, resp.Parameters.RetryAfter)
	assert.Empty(t, resp.Result)
}

func TestUpdate_UnmarshalMessageKinds(t *testing.T) {
	const data = `[
		{"update_id":1,"message":{"message_id":10,"date":1700000000,"chat":{"id":5,"type":"private"},"from":{"id":7,"is_bot":false,"first_name":"A"},"text":"hi"}},
		{"update_id":2,"message":{"message_id":11,"date":1700000001,"chat":{"id":5,"type":"group"},"location":{"latitude":52.5,"longitude":13.4}}},
		{"update_id":3,"message":{"message_id":12,"date":1700000002,"chat":{"id":5,"type":"private"},"contact":{"phone_number":"+100","first_name":"B","user_id":8}}},
		{"update_id":4,"callback_query":{"id":"cb1","from":{"id":7,"is_bot":false,"first_name":"A"},"chat_instance":"-1","data":"yes","message":{"message_id":9,"date":1,"chat":{"id":5,"type":"private"},"text":"pick"}}}
	]`

	var updates []tg.Update
	require.NoError(t, json.Unmarshal([]byte(data), &updates))
	require.Len(t, updates, 4)

	assert.Equal(t, "hi", updates[0].Message.Text)
	assert.Equal(t, tg.ChatTypePrivate, updates[0].Message.Chat.Type)

	require.NotNil(t, updates[1].Message.Location)
	assert.InDelta(t, 52.5, updates[1].Message.Location.Latitude, 1e-9)
	assert.True(t, updates[1].Message.Chat.Type.IsGroup())

	require.NotNil(t, updates[2].Message.Contact)
	assert.Equal(t, "+100", updates[2].Message.Contact.PhoneNumber)

	cq := updates[3].CallbackQuery
	require.NotNil(t, cq)
	assert.Nil(t, updates[3].Message)
	assert.Equal(t, "cb1", cq.ID)
	assert.Equal(t, "yes", cq.Data)
	assert.Equal(t, 9, cq.Message.MessageID)
}

func TestUpdate_UnknownFieldsIgnored(t *testing.T) {
	var u tg.Update
	err := json.Unmarshal([]byte(`{"update_id":9,"edited_message":{"message_id":1},"poll":{}}`), &u)
	require.NoError(t, err)
	assert.Equal(t, int64(9), u.UpdateID)
	assert.Nil(t, u.Message)
	assert.Nil(t, u.CallbackQuery)
}
