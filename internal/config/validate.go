package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
//
// The fetch timeout must be strictly below every stream interval: a
// stalled bridge call must never outlive the tick that issued it, or
// two fetches for the same subscription could overlap.
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.PingInterval <= 0 || c.Server.PongTimeout <= 0 {
		return errors.New("server.ping_interval and server.pong_timeout must be > 0")
	}
	if c.Server.PongTimeout <= c.Server.PingInterval {
		return fmt.Errorf("server.pong_timeout (%s) must exceed server.ping_interval (%s)",
			c.Server.PongTimeout, c.Server.PingInterval)
	}

	if c.Bridge.URL == "" {
		return errors.New("bridge.url is required")
	}
	if c.Bridge.MaxRetries != nil && *c.Bridge.MaxRetries < 0 {
		return errors.New("bridge.max_retries must be >= 0")
	}

	if c.Streams.FetchTimeout <= 0 {
		return errors.New("streams.fetch_timeout must be > 0")
	}
	intervals := map[string]time.Duration{
		"streams.prices_interval":    c.Streams.PricesInterval,
		"streams.account_interval":   c.Streams.AccountInterval,
		"streams.positions_interval": c.Streams.PositionsInterval,
	}
	for name, interval := range intervals {
		if interval <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
		if c.Streams.FetchTimeout >= interval {
			return fmt.Errorf("streams.fetch_timeout (%s) must be below %s (%s)",
				c.Streams.FetchTimeout, name, interval)
		}
	}

	if len(c.Streams.DefaultSymbols) == 0 {
		return errors.New("streams.default_symbols must not be empty")
	}

	return nil
}
