package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prilive-com/tglite"
	"github.com/prilive-com/tglite/internal/validate"
	"github.com/prilive-com/tglite/tg"
)

var sendCmd = &cobra.Command{
	Use:   "send [flags] <chat-id> <text>",
	Short: "Send a text message",
	Long: `Send a text message, optionally with an inline keyboard.

Examples:
  tglite send 12345 "hello"
  tglite send --button "Yes=yes" --button "No=no" 12345 "Continue?"
  tglite send --button "Docs=https://core.telegram.org" --url 12345 "Read"
  tglite send --remove-keyboard 12345 "Done"`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringArray("button", nil, "Inline button as text=command, one row each (repeatable)")
	sendCmd.Flags().Bool("url", false, "Treat button commands as URLs")
	sendCmd.Flags().Bool("remove-keyboard", false, "Hide the current reply keyboard")
	sendCmd.Flags().Bool("selective", false, "With --remove-keyboard, only for mentioned users")
	sendCmd.Flags().String("parse-mode", "", "Text formatting: html, markdown, markdownv2")
	sendCmd.Flags().Bool("silent", false, "Send without notification")
}

func runSend(cmd *cobra.Command, args []string) error {
	var chatID int64
	if _, err := fmt.Sscan(args[0], &chatID); err != nil {
		return fmt.Errorf("invalid chat id %q: %w", args[0], err)
	}
	text := args[1]

	buttons, _ := cmd.Flags().GetStringArray("button")
	asURL, _ := cmd.Flags().GetBool("url")
	remove, _ := cmd.Flags().GetBool("remove-keyboard")
	selective, _ := cmd.Flags().GetBool("selective")
	parseMode, _ := cmd.Flags().GetString("parse-mode")
	silent, _ := cmd.Flags().GetBool("silent")

	mode, err := tg.ParseParseMode(parseMode)
	if err != nil {
		return err
	}
	opts := []tglite.SendOption{tglite.WithParseMode(mode)}
	if silent {
		opts = append(opts, tglite.Silent())
	}

	markup, err := buildMarkup(buttons, asURL)
	if err != nil {
		return err
	}

	bot, logger, closeLog, err := newBot(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if remove {
		return bot.RemoveReplyKeyboard(ctx, chatID, text, selective)
	}

	msg, err := bot.SendMessage(ctx, chatID, text, markup, opts...)
	if err != nil {
		return err
	}
	logger.Info("message sent", "chat_id", chatID, "message_id", msg.MessageID)
	return nil
}

// buildMarkup turns text=command pairs into an inline keyboard with one
// button per row. No pairs means no markup.
func buildMarkup(buttons []string, asURL bool) (tg.ReplyMarkup, error) {
	if len(buttons) == 0 {
		return nil, nil
	}

	typ := tg.InlineButtonQuery
	if asURL {
		typ = tg.InlineButtonURL
	}

	kb := tg.NewInlineKeyboard()
	for _, b := range buttons {
		text, command, ok := strings.Cut(b, "=")
		if !ok || text == "" {
			return nil, fmt.Errorf("invalid button %q, want text=command", b)
		}
		check := validate.CallbackData
		if asURL {
			check = validate.URL
		}
		if err := check(command); err != nil {
			return nil, fmt.Errorf("button %q: %w", text, err)
		}
		kb.AddRow()
		kb.AddButton(text, command, typ)
	}
	return kb.Markup(), nil
}
