package tg

import (
	"fmt"
	"strings"
)

// ParseMode selects how Telegram formats message text.
type ParseMode string

const (
	ParseModeNone       ParseMode = ""
	ParseModeHTML       ParseMode = "HTML"
	ParseModeMarkdown   ParseMode = "Markdown"
	ParseModeMarkdownV2 ParseMode = "MarkdownV2"
)

func (p ParseMode) String() string { return string(p) }

// IsValid reports whether Telegram accepts p. The empty mode sends plain text.
func (p ParseMode) IsValid() bool {
	switch p {
	case ParseModeNone, ParseModeHTML, ParseModeMarkdown, ParseModeMarkdownV2:
		return true
	}
	return false
}

// ParseParseMode maps a case-insensitive name ("html", "markdownv2", "none")
// to a ParseMode.
func ParseParseMode(s string) (ParseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "plain":
		return ParseModeNone, nil
	case "html":
		return ParseModeHTML, nil
	case "markdown":
		return ParseModeMarkdown, nil
	case "markdownv2":
		return ParseModeMarkdownV2, nil
	}
	return ParseModeNone, fmt.Errorf("tglite: unknown parse mode %q", s)
}

// ChatType is the kind of a chat.
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// IsGroup reports whether the chat has several members.
func (c ChatType) IsGroup() bool {
	return c == ChatTypeGroup || c == ChatTypeSupergroup
}
