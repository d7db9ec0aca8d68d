package playback

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/currentspace/djsync/internal/core"
	apperrors "github.com/currentspace/djsync/internal/errors"
	"github.com/currentspace/djsync/internal/stream"
)

// DefaultReconnectDelay is the fixed delay before a reconnect attempt.
const DefaultReconnectDelay = 2 * time.Second

// Session owns one logical playback-mirroring session: a single stream
// connection, the store, the interpolator and the track-change notifier.
// Sessions are explicitly constructed and injected; there is no package
// singleton. At most one physical connection exists per session, enforced
// by the idempotent Connect guard.
//
// The session is reference-counted by subscriber count across all
// subscription channels: it auto-disconnects once the last subscriber
// unsubscribes, freeing the socket and timers without an explicit
// Disconnect call.
type Session struct {
	streamClient   *stream.Client
	store          *Store
	notifier       *Notifier
	interp         *Interpolator
	dispatcher     *Dispatcher
	logger         *log.Logger
	reconnectDelay time.Duration

	mu             sync.Mutex
	gen            int // connection generation; bumping it invalidates readers and timers
	conn           *stream.Conn
	connecting     bool
	connected      bool
	token          string
	reconnectTimer *time.Timer
	subs           int
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	logger         *log.Logger
	httpClient     *http.Client
	reconnectDelay time.Duration
	tickInterval   time.Duration
}

// WithLogger sets the session logger. Library use defaults to a silent
// logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.logger = l
	}
}

// WithHTTPClient sets the HTTP client used for the stream connection.
func WithHTTPClient(hc *http.Client) SessionOption {
	return func(c *sessionConfig) {
		c.httpClient = hc
	}
}

// WithReconnectDelay overrides the fixed reconnect delay.
func WithReconnectDelay(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.reconnectDelay = d
	}
}

// WithTickInterval overrides the interpolation cadence.
func WithTickInterval(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.tickInterval = d
	}
}

// NewSession creates a session against the given stream URL.
func NewSession(url string, opts ...SessionOption) *Session {
	cfg := &sessionConfig{
		logger:         log.New(io.Discard),
		reconnectDelay: DefaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	streamOpts := []stream.Option{stream.WithLogger(cfg.logger)}
	if cfg.httpClient != nil {
		streamOpts = append(streamOpts, stream.WithHTTPClient(cfg.httpClient))
	}

	store := NewStore()
	notifier := NewNotifier(cfg.logger)
	interp := NewInterpolator(store, cfg.tickInterval)

	s := &Session{
		streamClient:   stream.NewClient(url, streamOpts...),
		store:          store,
		notifier:       notifier,
		interp:         interp,
		dispatcher:     NewDispatcher(store, notifier, interp, cfg.logger),
		logger:         cfg.logger,
		reconnectDelay: cfg.reconnectDelay,
	}
	s.dispatcher.SetReconnectHook(s.forceReconnect)
	return s
}

// Connect opens the stream with the given bearer token. It returns
// immediately; connection progress surfaces through the snapshot's status.
// Calling Connect while already connecting or connected is a no-op.
func (s *Session) Connect(token string) {
	s.mu.Lock()
	if s.connecting || s.connected {
		s.mu.Unlock()
		return
	}
	s.token = token
	s.connecting = true
	s.gen++
	gen := s.gen
	s.cancelReconnectLocked()
	s.mu.Unlock()

	s.store.SetStatus(core.StatusConnecting, "")
	go s.run(gen, token)
}

// Disconnect closes the connection, cancels pending reconnects, and fully
// resets the mirrored state. No automatic reconnection follows.
func (s *Session) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.connecting = false
	s.gen++
	s.token = ""
	s.cancelReconnectLocked()
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	s.interp.Stop()
	s.notifier.Reset()
	s.store.Reset()
}

// Snapshot returns the current mirrored state.
func (s *Session) Snapshot() core.Snapshot {
	return s.store.Snapshot()
}

// Subscribe registers a listener for core state changes.
func (s *Session) Subscribe(fn CoreListener) func() {
	return s.counted(s.store.Subscribe(fn))
}

// SubscribeProgress registers a listener for progress changes.
func (s *Session) SubscribeProgress(fn ProgressListener) func() {
	return s.counted(s.store.SubscribeProgress(fn))
}

// SubscribeTrackChange registers a track-change callback.
func (s *Session) SubscribeTrackChange(fn TrackChangeFunc) func() {
	return s.counted(s.notifier.Register(fn))
}

// counted wraps an unsubscribe func with refcount bookkeeping. When the
// count drops to zero the session tears itself down.
func (s *Session) counted(unsub func()) func() {
	s.mu.Lock()
	s.subs++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsub()
			s.mu.Lock()
			s.subs--
			last := s.subs == 0
			s.mu.Unlock()
			if last {
				s.logger.Debug("last subscriber gone, tearing down")
				s.Disconnect()
			}
		})
	}
}

// run owns one connection attempt and, on success, its read loop. gen
// identifies the attempt; any lifecycle change bumps the session gen and
// this loop winds down as a no-op.
func (s *Session) run(gen int, token string) {
	conn, err := s.streamClient.Open(context.Background(), token)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		s.connecting = false
		s.mu.Unlock()

		if errors.Is(err, apperrors.ErrSessionExpired) {
			// Dead token: retrying is pointless, re-auth happens outside.
			s.logger.Error("stream auth rejected", "err", err)
			s.store.SetStatus(core.StatusError, "Session expired")
			return
		}
		s.logger.Warn("stream connect failed", "err", err)
		s.store.SetStatus(core.StatusDisconnected, "")
		s.scheduleReconnect(gen)
		return
	}
	s.conn = conn
	s.connecting = false
	s.connected = true
	s.mu.Unlock()

	s.store.SetStatus(core.StatusConnected, "")

	for {
		f, err := conn.Next()

		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if stale {
			// Deliberate disconnect or supersession; state is already
			// invalidated, just drop the read.
			_ = conn.Close()
			return
		}

		if err != nil {
			// Natural stream end and network failure take the same path.
			s.logger.Warn("stream interrupted", "err", err)
			_ = conn.Close()
			s.mu.Lock()
			s.conn = nil
			s.connected = false
			s.mu.Unlock()

			s.interp.Stop()
			s.store.SetStatus(core.StatusDisconnected, "")
			s.scheduleReconnect(gen)
			return
		}

		s.dispatcher.Dispatch(f)
	}
}

// forceReconnect handles a server-sent reconnect event: tear the current
// connection down immediately and schedule a fresh attempt.
func (s *Session) forceReconnect() {
	s.logger.Info("server requested reconnect")

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.connecting = false
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	s.interp.Stop()
	s.store.SetStatus(core.StatusDisconnected, "")
	s.scheduleReconnect(gen)
}

// scheduleReconnect arms the single reconnect timer. Any previously
// pending timer is cancelled first, so exactly one is pending at any
// instant.
func (s *Session) scheduleReconnect(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.cancelReconnectLocked()
	s.reconnectTimer = time.AfterFunc(s.reconnectDelay, func() {
		s.retry(gen)
	})
}

// retry fires when the reconnect timer elapses.
func (s *Session) retry(gen int) {
	s.mu.Lock()
	s.reconnectTimer = nil
	if gen != s.gen || s.connecting || s.connected {
		s.mu.Unlock()
		return
	}
	if s.subs == 0 {
		// Nobody is listening anymore; let the connection stay down.
		s.mu.Unlock()
		s.logger.Debug("skipping reconnect, no subscribers")
		return
	}
	token := s.token
	s.connecting = true
	s.gen++
	newGen := s.gen
	s.mu.Unlock()

	s.store.SetStatus(core.StatusConnecting, "")
	go s.run(newGen, token)
}

func (s *Session) cancelReconnectLocked() {
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
		s.reconnectTimer = nil
	}
}

// pendingReconnect reports whether a reconnect timer is armed. Test hook.
func (s *Session) pendingReconnect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconnectTimer != nil
}
