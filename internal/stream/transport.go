// Package stream implements the chunked text/event-stream transport that
// carries playback delta events from the server.
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/currentspace/djsync/internal/errors"
)

// maxFrameSize bounds a single event frame. Full init snapshots with album
// art URLs stay well under this.
const maxFrameSize = 256 * 1024

// Frame is one complete server-sent event: an event name and its raw JSON
// payload.
type Frame struct {
	Event string
	Data  []byte
}

// Client opens event streams against a single endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used to open streams.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a stream client for the given URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		// No overall timeout: the stream is long-lived. Dial and TLS
		// handshake limits come from the default transport.
		httpClient: &http.Client{},
		url:        url,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint this client connects to.
func (c *Client) URL() string {
	return c.url
}

// Open starts a streaming request with bearer auth and returns the live
// connection. A 401 response returns ErrSessionExpired: the token is dead
// and callers must not retry with it. Any other failure is a plain error
// the caller may treat as transient.
func (c *Client) Open(ctx context.Context, token string) (*Conn, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	c.logger.Debug("opening stream", "url", c.url)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		return nil, apperrors.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}
	if resp.Body == nil {
		return nil, apperrors.ErrNoStreamBody
	}

	c.logger.Debug("stream open", "status", resp.StatusCode, "elapsed", time.Since(start))

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 4096), maxFrameSize)

	return &Conn{
		body:    resp.Body,
		scanner: scanner,
	}, nil
}

// Conn is a single live event stream.
type Conn struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// Next blocks until a complete frame has been read and returns it. It
// accumulates event:/data: line pairs until a blank separator. A natural
// end of stream returns ErrStreamClosed; callers treat it like any other
// connection failure.
func (c *Conn) Next() (Frame, error) {
	var (
		event     string
		dataLines []string
	)

	for c.scanner.Scan() {
		line := strings.TrimRight(c.scanner.Text(), "\r")

		if line == "" {
			// Blank separator: emit if we accumulated anything.
			if event != "" || len(dataLines) > 0 {
				return Frame{
					Event: frameEvent(event),
					Data:  []byte(strings.Join(dataLines, "\n")),
				}, nil
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, ":"):
			// Comment line (keepalive), ignore.
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimPrefix(strings.TrimPrefix(line, "event:"), " ")
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// Unknown field, ignore per the SSE contract.
		}
	}

	if err := c.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("read stream: %w", err)
	}
	return Frame{}, apperrors.ErrStreamClosed
}

// Close closes the underlying response body. Any blocked Next returns an
// error shortly after.
func (c *Conn) Close() error {
	return c.body.Close()
}

// frameEvent normalizes a missing event name to the SSE default.
func frameEvent(event string) string {
	if event == "" {
		return "message"
	}
	return event
}
