package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Stream.ReconnectDelayMS != 2000 {
		t.Errorf("ReconnectDelayMS = %d, want 2000", cfg.Stream.ReconnectDelayMS)
	}
	if cfg.Stream.TickIntervalMS != 200 {
		t.Errorf("TickIntervalMS = %d, want 200", cfg.Stream.TickIntervalMS)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestDefaultsPreserveExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Stream.ReconnectDelayMS = 500
	cfg.Log.Level = "debug"
	cfg.ApplyDefaults()

	if cfg.Stream.ReconnectDelayMS != 500 {
		t.Errorf("ReconnectDelayMS = %d, want 500", cfg.Stream.ReconnectDelayMS)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[stream]
url = "https://dj.example.com/api/stream"
reconnect_delay_ms = 750

[tail]
emoji = false
timestamp = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Stream.URL != "https://dj.example.com/api/stream" {
		t.Errorf("Stream.URL = %q", cfg.Stream.URL)
	}
	if cfg.Stream.ReconnectDelayMS != 750 {
		t.Errorf("ReconnectDelayMS = %d, want 750", cfg.Stream.ReconnectDelayMS)
	}
	if cfg.Tail.Emoji {
		t.Error("Tail.Emoji = true, file set false")
	}
	if !cfg.Tail.Timestamp {
		t.Error("Tail.Timestamp = false, file set true")
	}
	// Unspecified fields pick up defaults.
	if cfg.Stream.TickIntervalMS != 200 {
		t.Errorf("TickIntervalMS = %d, want default 200", cfg.Stream.TickIntervalMS)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DJSYNC_STREAM_URL", "https://env.example.com/stream")
	t.Setenv("DJSYNC_TOKEN", "env-token")
	t.Setenv("DJSYNC_RECONNECT_DELAY_MS", "1234")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Stream.URL != "https://env.example.com/stream" {
		t.Errorf("Stream.URL = %q", cfg.Stream.URL)
	}
	if cfg.Stream.Token != "env-token" {
		t.Errorf("Stream.Token = %q", cfg.Stream.Token)
	}
	if cfg.Stream.ReconnectDelayMS != 1234 {
		t.Errorf("ReconnectDelayMS = %d, want 1234", cfg.Stream.ReconnectDelayMS)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "https url ok",
			mutate:  func(c *Config) { c.Stream.URL = "https://dj.example.com/stream" },
			wantErr: false,
		},
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.Stream.URL = "ftp://dj.example.com" },
			wantErr: true,
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Stream.ReconnectDelayMS = -1 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
