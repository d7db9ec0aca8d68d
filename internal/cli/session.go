package cli

import (
	"time"

	"github.com/currentspace/djsync/internal/errors"
	"github.com/currentspace/djsync/internal/playback"
)

// newSession builds a playback session from the loaded config and returns
// it with the bearer token to connect with.
func newSession() (*playback.Session, string, error) {
	if cfg.Stream.URL == "" {
		return nil, "", errors.WithSuggestion(errors.ErrInvalidConfig,
			"Set stream.url in ~/.djsyncrc or DJSYNC_STREAM_URL")
	}
	if cfg.Stream.Token == "" {
		return nil, "", errors.WithSuggestion(errors.ErrInvalidConfig,
			"Set stream.token in ~/.djsyncrc or DJSYNC_TOKEN")
	}

	session := playback.NewSession(cfg.Stream.URL,
		playback.WithLogger(logger),
		playback.WithReconnectDelay(time.Duration(cfg.Stream.ReconnectDelayMS)*time.Millisecond),
		playback.WithTickInterval(time.Duration(cfg.Stream.TickIntervalMS)*time.Millisecond),
	)
	return session, cfg.Stream.Token, nil
}
