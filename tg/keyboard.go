package tg

import (
	"encoding/json"
	"iter"
)

// ReplyMarkup is implemented by every markup accepted in the reply_markup parameter.
type ReplyMarkup interface {
	replyMarkup()
}

// InlineKeyboardMarkup represents an inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton represents a button in an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

// ReplyKeyboardMarkup represents a custom keyboard with reply options.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard bool               `json:"one_time_keyboard,omitempty"`
	Selective       bool               `json:"selective,omitempty"`
}

// KeyboardButton represents one button of a reply keyboard.
type KeyboardButton struct {
	Text            string `json:"text"`
	RequestContact  bool   `json:"request_contact,omitempty"`
	RequestLocation bool   `json:"request_location,omitempty"`
}

// ReplyKeyboardRemove asks clients to hide the current custom keyboard.
type ReplyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
	Selective      bool `json:"selective,omitempty"`
}

func (*InlineKeyboardMarkup) replyMarkup() {}
func (*ReplyKeyboardMarkup) replyMarkup()  {}
func (*ReplyKeyboardRemove) replyMarkup()  {}

// RemoveKeyboard returns the markup that hides a reply keyboard.
func RemoveKeyboard(selective bool) *ReplyKeyboardRemove {
	return &ReplyKeyboardRemove{RemoveKeyboard: true, Selective: selective}
}

// Btn creates a callback button.
func Btn(text, callbackData string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, CallbackData: callbackData}
}

// BtnURL creates a URL button.
func BtnURL(text, url string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, URL: url}
}

// InlineButtonType selects what an inline button does when pressed.
type InlineButtonType int

const (
	InlineButtonURL InlineButtonType = iota
	InlineButtonQuery
)

// InlineKeyboard builds an inline keyboard row by row.
// A new row can only be started once the current one holds a button.
// The zero value is an empty keyboard.
type InlineKeyboard struct {
	rows [][]InlineKeyboardButton
}

// NewInlineKeyboard creates an empty builder.
func NewInlineKeyboard() *InlineKeyboard {
	k := &InlineKeyboard{}
	k.Flush()
	return k
}

// Flush drops every row and button.
func (k *InlineKeyboard) Flush() {
	k.rows = [][]InlineKeyboardButton{nil}
}

// AddRow starts a new row. It returns false if the current row is empty.
func (k *InlineKeyboard) AddRow() bool {
	if len(k.rows) == 0 || len(k.rows[len(k.rows)-1]) == 0 {
		return false
	}
	k.rows = append(k.rows, nil)
	return true
}

// AddButton appends a button to the current row. command is the URL or the
// callback data depending on typ; unknown types are rejected.
func (k *InlineKeyboard) AddButton(text, command string, typ InlineButtonType) bool {
	var btn InlineKeyboardButton
	switch typ {
	case InlineButtonURL:
		btn = BtnURL(text, command)
	case InlineButtonQuery:
		btn = Btn(text, command)
	default:
		return false
	}
	if len(k.rows) == 0 {
		k.rows = append(k.rows, nil)
	}
	last := len(k.rows) - 1
	k.rows[last] = append(k.rows[last], btn)
	return true
}

// Rows returns an iterator over the non-empty rows.
func (k *InlineKeyboard) Rows() iter.Seq[[]InlineKeyboardButton] {
	return func(yield func([]InlineKeyboardButton) bool) {
		for _, row := range k.rows {
			if len(row) == 0 {
				continue
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Markup returns the keyboard without the trailing empty row.
func (k *InlineKeyboard) Markup() *InlineKeyboardMarkup {
	m := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{}}
	for row := range k.Rows() {
		m.InlineKeyboard = append(m.InlineKeyboard, row)
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (k *InlineKeyboard) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Markup())
}

// KeyboardButtonType selects what a reply keyboard button sends.
type KeyboardButtonType int

const (
	KeyboardButtonSimple KeyboardButtonType = iota
	KeyboardButtonContact
	KeyboardButtonLocation
)

// ReplyKeyboard builds a custom reply keyboard row by row.
// The zero value is an empty keyboard.
type ReplyKeyboard struct {
	rows      [][]KeyboardButton
	resize    bool
	oneTime   bool
	selective bool
}

// NewReplyKeyboard creates an empty builder.
func NewReplyKeyboard() *ReplyKeyboard {
	k := &ReplyKeyboard{}
	k.Flush()
	return k
}

// Flush drops every row, button and flag.
func (k *ReplyKeyboard) Flush() {
	k.rows = [][]KeyboardButton{nil}
	k.resize, k.oneTime, k.selective = false, false, false
}

// AddRow starts a new row. It returns false if the current row is empty.
func (k *ReplyKeyboard) AddRow() bool {
	if len(k.rows) == 0 || len(k.rows[len(k.rows)-1]) == 0 {
		return false
	}
	k.rows = append(k.rows, nil)
	return true
}

// AddButton appends a button to the current row.
func (k *ReplyKeyboard) AddButton(text string, typ KeyboardButtonType) bool {
	btn := KeyboardButton{Text: text}
	switch typ {
	case KeyboardButtonSimple:
	case KeyboardButtonContact:
		btn.RequestContact = true
	case KeyboardButtonLocation:
		btn.RequestLocation = true
	default:
		return false
	}
	if len(k.rows) == 0 {
		k.rows = append(k.rows, nil)
	}
	last := len(k.rows) - 1
	k.rows[last] = append(k.rows[last], btn)
	return true
}

// EnableResize asks clients to fit the keyboard to its buttons.
func (k *ReplyKeyboard) EnableResize() { k.resize = true }

// EnableOneTime hides the keyboard after the first use.
func (k *ReplyKeyboard) EnableOneTime() { k.oneTime = true }

// EnableSelective shows the keyboard to mentioned users only.
func (k *ReplyKeyboard) EnableSelective() { k.selective = true }

// Markup returns the keyboard without the trailing empty row.
func (k *ReplyKeyboard) Markup() *ReplyKeyboardMarkup {
	m := &ReplyKeyboardMarkup{
		Keyboard:        [][]KeyboardButton{},
		ResizeKeyboard:  k.resize,
		OneTimeKeyboard: k.oneTime,
		Selective:       k.selective,
	}
	for _, row := range k.rows {
		if len(row) > 0 {
			m.Keyboard = append(m.Keyboard, row)
		}
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (k *ReplyKeyboard) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Markup())
}
