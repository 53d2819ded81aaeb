package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sotto/internal/domain"
)

// Client talks to a sotto transport server.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a transport client for the given base URL. A nil
// httpClient gets a 10 second timeout default.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: base, http: httpClient}
}

// SendEncrypted posts one ciphertext envelope for delivery.
func (c *Client) SendEncrypted(ctx context.Context, env domain.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("send message: %s", resp.Status)
	}
	return nil
}

// Subscribe opens the websocket stream of inbound envelopes for user.
//
// The returned channel closes when the stream ends. The cancel function
// closes the connection; it is safe to call more than once and after the
// stream has already ended.
func (c *Client) Subscribe(ctx context.Context, user domain.UserID) (<-chan domain.Envelope, func(), error) {
	wsURL := strings.Replace(c.base, "http", "ws", 1) +
		"/v1/stream?user=" + url.QueryEscape(string(user))

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dial stream: %w", err)
	}
	if resp != nil {
		resp.Body.Close()
	}

	var once sync.Once
	cancel := func() { once.Do(func() { conn.Close() }) }

	ch := make(chan domain.Envelope, 16)
	done := make(chan struct{})
	go func() {
		defer close(ch)
		defer close(done)
		defer cancel()
		for {
			var env domain.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			select {
			case ch <- env:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel, nil
}

var _ domain.Transport = (*Client)(nil)
