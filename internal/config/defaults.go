package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 3001
	DefaultWriteTimeout      = 5 * time.Second
	DefaultPingInterval      = 30 * time.Second
	DefaultPongTimeout       = 75 * time.Second
	DefaultBridgeURL         = "http://localhost:5001"
	DefaultBridgeTimeout     = 30 * time.Second
	DefaultMaxRetries        = 2
	DefaultRetryBackoff      = 250 * time.Millisecond
	DefaultPricesInterval    = 1 * time.Second
	DefaultAccountInterval   = 2 * time.Second
	DefaultPositionsInterval = 2 * time.Second
	DefaultFetchTimeout      = 300 * time.Millisecond
)

// DefaultSymbols is the symbol set used when a prices subscription
// names none.
var DefaultSymbols = []string{"EURUSD", "GBPUSD", "USDJPY", "XAUUSD", "USDCHF", "AUDUSD"}

func (c *ServerConfig) applyDefaults() {
	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.PingInterval == 0 {
		c.Server.PingInterval = DefaultPingInterval
	}
	if c.Server.PongTimeout == 0 {
		c.Server.PongTimeout = DefaultPongTimeout
	}

	// Bridge defaults
	if c.Bridge.URL == "" {
		c.Bridge.URL = DefaultBridgeURL
	}
	if c.Bridge.Timeout == 0 {
		c.Bridge.Timeout = DefaultBridgeTimeout
	}
	if c.Bridge.MaxRetries == nil {
		retries := DefaultMaxRetries
		c.Bridge.MaxRetries = &retries
	}
	if c.Bridge.RetryBackoff == 0 {
		c.Bridge.RetryBackoff = DefaultRetryBackoff
	}

	// Streams defaults
	if c.Streams.PricesInterval == 0 {
		c.Streams.PricesInterval = DefaultPricesInterval
	}
	if c.Streams.AccountInterval == 0 {
		c.Streams.AccountInterval = DefaultAccountInterval
	}
	if c.Streams.PositionsInterval == 0 {
		c.Streams.PositionsInterval = DefaultPositionsInterval
	}
	if c.Streams.FetchTimeout == 0 {
		c.Streams.FetchTimeout = DefaultFetchTimeout
	}
	if len(c.Streams.DefaultSymbols) == 0 {
		c.Streams.DefaultSymbols = append([]string(nil), DefaultSymbols...)
	}
}
