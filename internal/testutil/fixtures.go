package testutil

import "github.com/prilive-com/tglite/tg"

// Test constants for consistent test data.
const (
	// TestToken is a valid-format bot token for testing.
	TestToken = "123456789:ABCdefGHIjklMNOpqrsTUVwxyz"

	// TestChatID is a test chat ID.
	TestChatID = int64(123456789)

	// TestUserID is a test user ID.
	TestUserID = int64(987654321)

	// TestBotID is a test bot ID.
	TestBotID = int64(123456789)
)

// TestUser returns a test user fixture.
func TestUser() *tg.User {
	return &tg.User{
		ID:        TestUserID,
		FirstName: "Test",
		LastName:  "User",
		Username:  "testuser",
	}
}

// TestBot returns a test bot user fixture.
func TestBot() *tg.User {
	return &tg.User{
		ID:        TestBotID,
		IsBot:     true,
		FirstName: "Test Bot",
		Username:  "testbot",
	}
}

// TestChat returns a test private chat fixture.
func TestChat() *tg.Chat {
	return &tg.Chat{
		ID:        TestChatID,
		Type:      "private",
		FirstName: "Test",
		Username:  "testuser",
	}
}

// TestMessage returns a text message fixture.
func TestMessage(id int, text string) *tg.Message {
	return &tg.Message{
		MessageID: id,
		From:      TestUser(),
		Chat:      TestChat(),
		Date:      1700000000,
		Text:      text,
	}
}

// TestCallback returns a callback query fixture on a bot message.
func TestCallback(id, data string) *tg.CallbackQuery {
	return &tg.CallbackQuery{
		ID:           id,
		From:         TestUser(),
		Message:      TestMessage(10, "pick one"),
		ChatInstance: "-42",
		Data:         data,
	}
}
