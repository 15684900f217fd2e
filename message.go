package tglite

import "github.com/prilive-com/tglite/tg"

// MessageKind classifies what GetNewMessage received.
type MessageKind int

const (
	KindNoData MessageKind = iota
	KindText
	KindQuery
	KindLocation
	KindContact
)

func (k MessageKind) String() string {
	switch k {
	case KindNoData:
		return "no_data"
	case KindText:
		return "text"
	case KindQuery:
		return "query"
	case KindLocation:
		return "location"
	case KindContact:
		return "contact"
	default:
		return "unknown"
	}
}

// Message is a flattened incoming update.
type Message struct {
	Kind     MessageKind
	UpdateID int64

	MessageID int
	Date      int64
	Text      string
	Sender    tg.User
	Chat      tg.Chat

	Location *tg.Location
	Contact  *tg.Contact

	// Callback query fields, set for KindQuery
	QueryID      string
	QueryData    string
	ChatInstance string
}

// ChatID is the chat to reply into.
func (m Message) ChatID() int64 { return m.Chat.ID }

// IsEmpty reports whether the update carried nothing the bot handles.
func (m Message) IsEmpty() bool { return m.Kind == KindNoData }

func messageFromUpdate(u tg.Update) Message {
	msg := Message{UpdateID: u.UpdateID}

	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.ID != "":
		cq := u.CallbackQuery
		msg.Kind = KindQuery
		msg.QueryID = cq.ID
		msg.QueryData = cq.Data
		msg.ChatInstance = cq.ChatInstance
		if cq.From != nil {
			msg.Sender = *cq.From
		}
		if m := cq.Message; m != nil {
			msg.MessageID = m.MessageID
			msg.Date = m.Date
			msg.Text = m.Text
			if m.Chat != nil {
				msg.Chat = *m.Chat
			}
		}

	case u.Message != nil && u.Message.MessageID != 0:
		m := u.Message
		msg.MessageID = m.MessageID
		msg.Date = m.Date
		msg.Text = m.Text
		if m.From != nil {
			msg.Sender = *m.From
		}
		if m.Chat != nil {
			msg.Chat = *m.Chat
		}
		switch {
		case m.Text != "":
			msg.Kind = KindText
		case m.Location != nil:
			msg.Kind = KindLocation
			msg.Location = m.Location
		case m.Contact != nil:
			msg.Kind = KindContact
			msg.Contact = m.Contact
		}
	}

	return msg
}
