package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var getMeCmd = &cobra.Command{
	Use:   "getme",
	Short: "Print the bot's own user",
	Args:  cobra.NoArgs,
	RunE:  runGetMe,
}

func runGetMe(cmd *cobra.Command, _ []string) error {
	bot, _, closeLog, err := newBot(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	user, err := bot.GetMe(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(user)
}
