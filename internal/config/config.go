package config

import "time"

// ServerConfig is the root configuration for the streaming backend.
type ServerConfig struct {
	Server  HTTPConfig    `yaml:"server"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Streams StreamsConfig `yaml:"streams"`
}

// HTTPConfig holds HTTP/WebSocket server settings.
type HTTPConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	AllowedOrigin string        `yaml:"allowed_origin"` // empty = allow all
	WriteTimeout  time.Duration `yaml:"write_timeout"`  // WebSocket write deadline
	PingInterval  time.Duration `yaml:"ping_interval"`  // keepalive ping cadence
	PongTimeout   time.Duration `yaml:"pong_timeout"`   // silent client considered dead after this
}

// BridgeConfig holds MT5 bridge client settings.
type BridgeConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"` // REST proxy calls (not stream fetches)

	// MaxRetries is a pointer so an explicit 0 (retries off) survives
	// default application; nil means unset.
	MaxRetries   *int          `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// StreamsConfig holds live stream polling settings.
type StreamsConfig struct {
	PricesInterval    time.Duration `yaml:"prices_interval"`
	AccountInterval   time.Duration `yaml:"account_interval"`
	PositionsInterval time.Duration `yaml:"positions_interval"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	DefaultSymbols    []string      `yaml:"default_symbols"`
}
