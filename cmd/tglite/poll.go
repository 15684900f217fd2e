package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prilive-com/tglite"
	"github.com/prilive-com/tglite/tg"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run an echo loop until interrupted",
	Long: `Fetch updates one at a time and echo them back.

Text is echoed, callback queries are answered with their data, locations
and contacts are acknowledged. Ctrl+C stops the loop.`,
	Args: cobra.NoArgs,
	RunE: runPoll,
}

func init() {
	pollCmd.Flags().Duration("interval", time.Second, "Pause between empty polls")
}

func runPoll(cmd *cobra.Command, _ []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")

	bot, logger, closeLog, err := newBot(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !bot.TestConnection(ctx) {
		logger.Warn("initial connection test failed, polling anyway")
	}
	logger.Info("polling started", "interval", interval)

	for {
		msg, err := bot.GetNewMessage(ctx)
		switch {
		case ctx.Err() != nil:
			logger.Info("polling stopped")
			return nil
		case err != nil:
			logger.Warn("poll failed", "error", err, "prefer_dns", bot.PreferDNS())
			if errors.Is(err, tg.ErrUnauthorized) {
				return err
			}
		case !msg.IsEmpty():
			handleMessage(ctx, bot, logger, msg)
			continue
		}

		select {
		case <-ctx.Done():
			logger.Info("polling stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

func handleMessage(ctx context.Context, bot *tglite.Bot, logger *slog.Logger, msg tglite.Message) {
	logger.Info("message received",
		"kind", msg.Kind,
		"chat_id", msg.ChatID(),
		"from", msg.Sender.Username,
	)

	var err error
	switch msg.Kind {
	case tglite.KindText:
		_, err = bot.SendMessage(ctx, msg.ChatID(), "Echo: "+msg.Text, nil)
	case tglite.KindQuery:
		err = bot.EndQuery(ctx, msg.QueryID, msg.QueryData, false)
	case tglite.KindLocation:
		_, err = bot.SendMessage(ctx, msg.ChatID(), "Location received", nil)
	case tglite.KindContact:
		_, err = bot.SendMessage(ctx, msg.ChatID(), "Contact received: "+msg.Contact.PhoneNumber, nil)
	}
	if err != nil {
		logger.Warn("reply failed", "kind", msg.Kind, "error", err)
	}
}
