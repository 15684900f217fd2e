package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/prilive-com/tglite"
)

var rootCmd = &cobra.Command{
	Use:           "tglite",
	Short:         "Minimal Telegram Bot API client",
	Long:          "Talk to the Telegram Bot API over a raw TLS exchange per request.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides TGLITE_LOG_LEVEL)")
	flags.String("log-file", "", "Write logs to a rotated file instead of stderr")
	flags.Bool("dns", false, "Resolve the host name before falling back to the fixed address")
	flags.Bool("utf8", false, "Rewrite \\uXXXX escapes in replies before JSON decoding (unpaired surrogates)")
	flags.Int("retries", -1, "Retries per call (overrides TGLITE_MAX_RETRIES)")

	rootCmd.AddCommand(getMeCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(decodeCmd)
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*tglite.Config, error) {
	cfg, err := tglite.LoadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if level, _ := flags.GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if flags.Changed("dns") {
		cfg.UseDNS, _ = flags.GetBool("dns")
	}
	if flags.Changed("utf8") {
		cfg.UTF8Decoding, _ = flags.GetBool("utf8")
	}
	if retries, _ := flags.GetInt("retries"); retries >= 0 {
		cfg.MaxRetries = retries
	}
	return cfg, nil
}

// newLogger logs to stderr, or to a size-rotated file when --log-file is set.
// The returned func closes the file.
func newLogger(cmd *cobra.Command, cfg *tglite.Config) (*slog.Logger, func() error) {
	var w io.Writer = os.Stderr
	closeLog := func() error { return nil }
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w, closeLog = lj, lj.Close
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()})), closeLog
}

// newBot builds a bot from the environment and flags. The caller closes the
// log with the returned func.
func newBot(cmd *cobra.Command) (*tglite.Bot, *slog.Logger, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog := newLogger(cmd, cfg)

	bot, err := tglite.NewFromConfig(*cfg, tglite.WithLogger(logger))
	if err != nil {
		_ = closeLog()
		return nil, nil, nil, fmt.Errorf("creating bot: %w", err)
	}
	return bot, logger, closeLog, nil
}
