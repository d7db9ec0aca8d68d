package config

// Config is the root configuration structure.
type Config struct {
	Stream StreamConfig `toml:"stream"`
	Tail   TailConfig   `toml:"tail"`
	TUI    TUIConfig    `toml:"tui"`
	Log    LogConfig    `toml:"log"`
}

// StreamConfig holds connection settings for the playback event stream.
type StreamConfig struct {
	URL              string `toml:"url"`
	Token            string `toml:"token"`
	ReconnectDelayMS int    `toml:"reconnect_delay_ms"`
	TickIntervalMS   int    `toml:"tick_interval_ms"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Emoji     bool `toml:"emoji"`
	Timestamp bool `toml:"timestamp"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}
