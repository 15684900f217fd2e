package tglite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/prilive-com/tglite/internal/resilience"
	"github.com/prilive-com/tglite/internal/scrub"
	"github.com/prilive-com/tglite/internal/validate"
	"github.com/prilive-com/tglite/tg"
	"github.com/prilive-com/tglite/transport"
	"github.com/prilive-com/tglite/wire"
)

// allowedUpdates restricts getUpdates to the kinds GetNewMessage understands.
const allowedUpdates = `["message","callback_query"]`

// Bot is a Telegram Bot API client running one wire cycle per call.
// A Bot is meant to be driven by a single goroutine.
type Bot struct {
	token   tg.SecretToken
	logger  *slog.Logger
	cycle   *wire.Cycle
	session *wire.Session
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	retry   resilience.RetryConfig

	utf8   atomic.Bool
	offset atomic.Int64 // next getUpdates offset, 0 = none yet
}

type botConfig struct {
	config  Config
	logger  *slog.Logger
	dialer  wire.Dialer
	hook    wire.Hook
	sleeper resilience.Sleeper
}

// Option configures the Bot.
type Option func(*botConfig)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *botConfig) {
		c.logger = logger
	}
}

// WithDialer replaces the TLS dialer built from the configuration.
func WithDialer(d wire.Dialer) Option {
	return func(c *botConfig) {
		c.dialer = d
	}
}

// WithTarget sets the host name, fixed address and port.
func WithTarget(host string, addr string, port uint16) Option {
	return func(c *botConfig) {
		c.config.Host = host
		c.config.Addr = addr
		c.config.Port = port
	}
}

// WithDNS makes cycles try the host name before the fixed address.
func WithDNS(enabled bool) Option {
	return func(c *botConfig) {
		c.config.UseDNS = enabled
	}
}

// WithUTF8Decoding rewrites \uXXXX escapes in replies before decoding them.
// Surrogate pairs are not combined, so characters outside the BMP come out
// as invalid UTF-8, and escaped quotes or control characters break the JSON.
// encoding/json decodes escapes by itself; leave this off unless the raw
// bytes matter.
func WithUTF8Decoding(enabled bool) Option {
	return func(c *botConfig) {
		c.config.UTF8Decoding = enabled
	}
}

// WithStatusLED drives a status indicator that flips before and after every
// request is written.
func WithStatusLED(set func(level bool)) Option {
	return func(c *botConfig) {
		c.hook = wire.NewToggle(set).Hook()
	}
}

// WithHook sets a raw checkpoint hook. It replaces WithStatusLED.
func WithHook(h wire.Hook) Option {
	return func(c *botConfig) {
		c.hook = h
	}
}

// WithRetries sets how many times a failed call is retried.
func WithRetries(n int) Option {
	return func(c *botConfig) {
		c.config.MaxRetries = n
	}
}

// WithRateLimit sets the request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *botConfig) {
		c.config.GlobalRPS = rps
		c.config.GlobalBurst = burst
	}
}

// WithCircuitBreaker sets how many consecutive failed cycles open the
// breaker and how long it stays open. A zero threshold disables it.
func WithCircuitBreaker(threshold uint32, timeout time.Duration) Option {
	return func(c *botConfig) {
		c.config.BreakerThreshold = threshold
		c.config.BreakerTimeout = timeout
	}
}

// WithSleeper sets a custom sleeper for retry timing (useful for testing).
func WithSleeper(s resilience.Sleeper) Option {
	return func(c *botConfig) {
		c.sleeper = s
	}
}

// New creates a Bot with DefaultConfig and the given token.
func New(token string, opts ...Option) (*Bot, error) {
	cfg := DefaultConfig()
	cfg.Token = tg.SecretToken(token)
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig creates a Bot from a Config.
func NewFromConfig(cfg Config, opts ...Option) (*Bot, error) {
	if err := validate.Token(cfg.Token.Value()); err != nil {
		return nil, err
	}

	bc := botConfig{config: cfg}
	for _, opt := range opts {
		opt(&bc)
	}
	cfg = bc.config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := bc.logger
	if logger == nil {
		logger = slog.Default()
	}

	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}

	dialer := bc.dialer
	if dialer == nil {
		tc, err := cfg.TransportConfig()
		if err != nil {
			return nil, err
		}
		dialer = transport.NewDialer(tc)
	}

	limit := rate.Inf
	if cfg.GlobalRPS > 0 {
		limit = rate.Limit(cfg.GlobalRPS)
	}

	b := &Bot{
		token:   cfg.Token,
		logger:  logger,
		session: wire.NewSession(target, cfg.UseDNS),
		cycle: &wire.Cycle{
			Dialer: dialer,
			Hook:   bc.hook,
			Logger: logger,
		},
		limiter: rate.NewLimiter(limit, max(cfg.GlobalBurst, 1)),
	}
	b.utf8.Store(cfg.UTF8Decoding)

	breakerCfg := resilience.DefaultBreakerConfig("tglite-cycle")
	breakerCfg.Threshold = cfg.BreakerThreshold
	breakerCfg.Interval = cfg.BreakerInterval
	breakerCfg.Timeout = cfg.BreakerTimeout
	breakerCfg.IsSuccessful = isBreakerSuccess
	breakerCfg.OnStateChange = func(name, from, to string) {
		logger.Info("circuit breaker state changed", "name", name, "from", from, "to", to)
	}
	b.breaker = resilience.NewBreaker[[]byte](breakerCfg)

	b.retry = resilience.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseWait:    cfg.RetryBaseWait,
		MaxWait:     cfg.RetryMaxWait,
		Multiplier:  cfg.RetryFactor,
		Jitter:      0.2,
		Retryable:   isRetryable,
		Sleeper:     bc.sleeper,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			logger.Warn("retrying request", "attempt", attempt, "wait", wait, "error", err)
		},
	}

	logger.Debug("bot created",
		"bot_id", cfg.Token.BotID(),
		"host", target.Host,
		"addr", target.AddrPort(),
		"use_dns", cfg.UseDNS,
	)
	return b, nil
}

// UseDNS sets whether the next cycle tries the host name first.
func (b *Bot) UseDNS(enabled bool) { b.session.UseDNS(enabled) }

// PreferDNS reports whether the next cycle tries the host name first. It
// turns false by itself once a host name attempt failed and the fixed
// address worked.
func (b *Bot) PreferDNS() bool { return b.session.PreferDNS() }

// EnableUTF8Decoding toggles \uXXXX rewriting of replies. See
// WithUTF8Decoding for why it is off by default.
func (b *Bot) EnableUTF8Decoding(enabled bool) { b.utf8.Store(enabled) }

// Offset returns the next getUpdates offset, 0 before the first update.
func (b *Bot) Offset() int64 { return b.offset.Load() }

// SendCommand runs command with params and returns the raw reply: the bytes
// read up to the end of the first JSON object. No decoding is applied.
func (b *Bot) SendCommand(ctx context.Context, command string, params url.Values) ([]byte, error) {
	raw, err := resilience.Retry(ctx, b.retry, func() ([]byte, error) {
		return b.send(ctx, command, params)
	})
	return raw, b.finalError(err)
}

// GetMe returns the bot's own user.
func (b *Bot) GetMe(ctx context.Context) (*tg.User, error) {
	resp, err := b.call(ctx, "getMe", nil)
	if err != nil {
		return nil, err
	}
	var user tg.User
	if err := json.Unmarshal(resp.Result, &user); err != nil {
		return nil, fmt.Errorf("tglite: parse getMe result: %w", err)
	}
	return &user, nil
}

// TestConnection reports whether getMe succeeds.
func (b *Bot) TestConnection(ctx context.Context) bool {
	_, err := b.GetMe(ctx)
	if err != nil {
		b.logger.Warn("connection test failed", "error", err)
	}
	return err == nil
}

// GetNewMessage fetches at most one pending update and acknowledges it by
// advancing the offset. An empty queue yields a KindNoData message and no
// error.
func (b *Bot) GetNewMessage(ctx context.Context) (Message, error) {
	params := url.Values{
		"limit":           {"1"},
		"allowed_updates": {allowedUpdates},
	}
	if off := b.offset.Load(); off != 0 {
		params.Set("offset", strconv.FormatInt(off, 10))
	}

	resp, err := b.call(ctx, "getUpdates", params)
	if err != nil {
		return Message{}, err
	}

	var updates []tg.Update
	if err := json.Unmarshal(resp.Result, &updates); err != nil {
		return Message{}, fmt.Errorf("tglite: parse getUpdates result: %w", err)
	}
	if len(updates) == 0 || updates[0].UpdateID == 0 {
		return Message{}, nil
	}

	u := updates[0]
	b.offset.Store(u.UpdateID + 1)
	msg := messageFromUpdate(u)
	b.logger.Debug("update received", "update_id", u.UpdateID, "kind", msg.Kind)
	return msg, nil
}

// SendMessage sends text to chatID with an optional reply markup.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string, markup tg.ReplyMarkup, opts ...SendOption) (*tg.Message, error) {
	if err := validate.Text(text); err != nil {
		return nil, err
	}

	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}
	if markup != nil {
		data, err := json.Marshal(markup)
		if err != nil {
			return nil, fmt.Errorf("tglite: marshal reply markup: %w", err)
		}
		params.Set("reply_markup", string(data))
	}
	for _, opt := range opts {
		opt(params)
	}

	resp, err := b.call(ctx, "sendMessage", params)
	if err != nil {
		return nil, err
	}
	var msg tg.Message
	if err := json.Unmarshal(resp.Result, &msg); err != nil {
		return nil, fmt.Errorf("tglite: parse sendMessage result: %w", err)
	}
	return &msg, nil
}

// EndQuery answers a callback query. A non-empty text is shown as a
// notification, or as an alert when alert is set.
func (b *Bot) EndQuery(ctx context.Context, queryID, text string, alert bool) error {
	if err := validate.CallbackQueryID(queryID); err != nil {
		return err
	}
	if err := validate.QueryAnswer(text); err != nil {
		return err
	}

	params := url.Values{"callback_query_id": {queryID}}
	if text != "" {
		params.Set("text", text)
		params.Set("show_alert", strconv.FormatBool(alert))
	}

	_, err := b.call(ctx, "answerCallbackQuery", params)
	return err
}

// RemoveReplyKeyboard sends text and hides the current reply keyboard.
func (b *Bot) RemoveReplyKeyboard(ctx context.Context, chatID int64, text string, selective bool) error {
	_, err := b.SendMessage(ctx, chatID, text, tg.RemoveKeyboard(selective))
	return err
}

// call runs one command and decodes the reply envelope. API errors are
// returned as *tg.APIError.
func (b *Bot) call(ctx context.Context, method string, params url.Values) (*tg.Response, error) {
	resp, err := resilience.Retry(ctx, b.retry, func() (*tg.Response, error) {
		raw, err := b.send(ctx, method, params)
		if err != nil {
			return nil, err
		}
		return b.decode(method, raw)
	})
	return resp, b.finalError(err)
}

func (b *Bot) send(ctx context.Context, method string, params url.Values) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	line := requestLine(b.token, method, params)
	b.logger.Debug("sending command", "method", method, "request", scrub.String(line, b.token))

	raw, err := b.breaker.Execute(func() ([]byte, error) {
		return b.cycle.Send(ctx, b.session, line)
	})
	if err != nil {
		if resilience.IsBreakerError(err) {
			return nil, fmt.Errorf("%w: %w", tg.ErrCircuitOpen, err)
		}
		return nil, scrub.TokenFromError(err, b.token)
	}
	return raw, nil
}

func (b *Bot) decode(method string, raw []byte) (*tg.Response, error) {
	// Anything ahead of the object, such as a stray header line, is dropped.
	if i := bytes.IndexByte(raw, '{'); i > 0 {
		raw = raw[i:]
	}
	if b.utf8.Load() {
		raw = []byte(wire.DecodeEscapes(string(raw)))
	}

	var resp tg.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("tglite: decode %s reply: %w", method, err)
	}
	if !resp.OK {
		return nil, tg.NewAPIError(method, resp.ErrorCode, resp.Description)
	}
	return &resp, nil
}

func (b *Bot) finalError(err error) error {
	if err != nil && b.retry.MaxAttempts > 0 && isRetryable(err) {
		return fmt.Errorf("%w: %w", tg.ErrMaxRetries, err)
	}
	return err
}

// requestLine builds "GET /bot<token>/<method>?<params>". Parameters are
// percent-encoded with spaces as %20.
func requestLine(token tg.SecretToken, method string, params url.Values) string {
	var sb strings.Builder
	sb.WriteString("GET /bot")
	sb.WriteString(token.Value())
	sb.WriteByte('/')
	sb.WriteString(method)
	if len(params) > 0 {
		sb.WriteByte('?')
		sb.WriteString(strings.ReplaceAll(params.Encode(), "+", "%20"))
	}
	return sb.String()
}

func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, tg.ErrCircuitOpen) {
		return false
	}
	if errors.Is(err, tg.ErrConnectFailed) || errors.Is(err, tg.ErrNoJSON) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *tg.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}
	return false
}

// isBreakerSuccess decides which cycle errors count against the breaker.
// Context cancellation is the caller's doing, not a server failure.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
