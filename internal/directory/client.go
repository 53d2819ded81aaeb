package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sotto/internal/domain"
)

// Client talks to a directory server over HTTP.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a directory client for the given base URL. A nil
// httpClient gets a 10 second timeout default.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: base, http: httpClient}
}

type keyRecord struct {
	PublicKey domain.PublicKey `json:"public_key"`
}

func (c *Client) keyURL(user domain.UserID) string {
	return c.base + "/v1/keys/" + url.PathEscape(string(user))
}

// PublishPublicKey uploads the public half of the identity key.
func (c *Client) PublishPublicKey(ctx context.Context, user domain.UserID, pub domain.PublicKey) error {
	body, err := json.Marshal(keyRecord{PublicKey: pub})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.keyURL(user), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publish key: %s", resp.Status)
	}
	return nil
}

// FetchPublicKey downloads a peer's published key. A 404 means the peer has
// not published one; that is reported as ok=false, not an error.
func (c *Client) FetchPublicKey(ctx context.Context, peer domain.UserID) (domain.PublicKey, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.keyURL(peer), nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("fetch key: %s", resp.Status)
	}
	var rec keyRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, false, err
	}
	return rec.PublicKey, true, nil
}

var _ domain.Directory = (*Client)(nil)
