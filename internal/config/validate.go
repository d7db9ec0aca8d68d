package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Stream.URL != "" {
		u, err := url.Parse(c.Stream.URL)
		if err != nil {
			return fmt.Errorf("stream.url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("stream.url: unsupported scheme %q", u.Scheme)
		}
	}

	if c.Stream.ReconnectDelayMS < 0 {
		return fmt.Errorf("stream.reconnect_delay_ms: must not be negative")
	}
	if c.Stream.TickIntervalMS < 0 {
		return fmt.Errorf("stream.tick_interval_ms: must not be negative")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}

	return nil
}
