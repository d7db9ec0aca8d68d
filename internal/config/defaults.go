package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Stream: StreamConfig{
			ReconnectDelayMS: 2000,
			TickIntervalMS:   200,
		},
		Tail: TailConfig{
			Emoji:     true,
			Timestamp: false,
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Stream.ReconnectDelayMS == 0 {
		c.Stream.ReconnectDelayMS = d.Stream.ReconnectDelayMS
	}
	if c.Stream.TickIntervalMS == 0 {
		c.Stream.TickIntervalMS = d.Stream.TickIntervalMS
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
