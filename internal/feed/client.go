package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/logger"
)

// Listener receives feed events. Implementations must not block for long:
// the client calls them from its read loop.
type Listener interface {
	OnTick(models.Tick)
	OnSymbolResolved(symbol string)
	OnFeedError(err error)
	OnFeedLost()
}

// MonthlySeeder is implemented by listeners that accept historical monthly
// candles pushed by the feed right after a symbol resolves.
type MonthlySeeder interface {
	SeedMonthly(candles []models.MonthlyCandle)
}

// Config drives the client.
type Config struct {
	URL     string
	Symbols []string // candidates, tried in order
	// SwitchDelay is the pause before trying the next candidate after a
	// symbol failed to resolve.
	SwitchDelay time.Duration
	// RetryDelay is the pause before reconnecting a lost symbol and before
	// wrapping around the candidate list.
	RetryDelay       time.Duration
	HandshakeTimeout time.Duration
}

// ErrNoSymbols is returned by Run when no candidate symbol is configured.
var ErrNoSymbols = errors.New("feed: no symbols configured")

// Client streams ticks for the first candidate symbol the upstream accepts.
type Client struct {
	cfg      Config
	dialer   *websocket.Dialer
	listener Listener
}

// NewClient builds a client. Zero delays get sensible defaults.
func NewClient(cfg Config, l Listener) *Client {
	if cfg.SwitchDelay <= 0 {
		cfg.SwitchDelay = 2 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 3 * time.Second
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	return &Client{
		cfg:      cfg,
		dialer:   &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		listener: l,
	}
}

// Run connects and keeps the stream alive until ctx is cancelled.
//
// A candidate that errors before resolving is skipped for the next one; a
// resolved symbol whose connection drops is reconnected as-is. After the
// last candidate the list wraps around.
func (c *Client) Run(ctx context.Context) error {
	if len(c.cfg.Symbols) == 0 {
		return ErrNoSymbols
	}
	lg := logger.Component("feed")
	idx := 0
	for {
		symbol := c.cfg.Symbols[idx]
		lg.Info().Str("symbol", symbol).Str("url", c.cfg.URL).Msg("subscribing")

		resolved, err := c.session(ctx, symbol)
		if ctx.Err() != nil {
			return nil
		}

		var wait time.Duration
		if resolved {
			c.listener.OnFeedLost()
			if err != nil {
				c.listener.OnFeedError(fmt.Errorf("symbol %s: %w", symbol, err))
			}
			wait = c.cfg.RetryDelay
		} else {
			c.listener.OnFeedError(fmt.Errorf("symbol %s: %w", symbol, err))
			idx++
			wait = c.cfg.SwitchDelay
			if idx >= len(c.cfg.Symbols) {
				idx = 0
				wait = c.cfg.RetryDelay
				lg.Warn().Msg("no candidate symbol resolved, starting over")
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// session runs one connection for symbol and reports whether the symbol
// resolved before the connection ended.
func (c *Client) session(ctx context.Context, symbol string) (bool, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.WriteJSON(subscribeFrame{Type: frameSubscribe, Symbol: symbol}); err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}

	lg := logger.Component("feed")
	resolved := false
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return resolved, errors.New("closed by upstream")
			}
			return resolved, fmt.Errorf("read: %w", err)
		}

		switch f.Type {
		case frameSymbolLoaded:
			name := f.Symbol
			if name == "" {
				name = symbol
			}
			resolved = true
			c.listener.OnSymbolResolved(name)
		case frameMonthly:
			seeder, ok := c.listener.(MonthlySeeder)
			if !ok || !resolved {
				continue
			}
			candles, err := f.candles()
			if err != nil {
				lg.Warn().Err(err).Str("symbol", symbol).Msg("dropping monthly history")
				continue
			}
			seeder.SeedMonthly(candles)
			lg.Info().Str("symbol", symbol).Int("months", len(candles)).Msg("monthly history loaded")
		case frameTick:
			if !resolved {
				continue
			}
			c.listener.OnTick(f.tick())
		case frameError:
			return resolved, fmt.Errorf("upstream: %s", f.Message)
		default:
			lg.Debug().Str("type", f.Type).Msg("ignoring frame")
		}
	}
}
