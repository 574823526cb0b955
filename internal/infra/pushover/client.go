// Package pushover sends failure notifications to a phone.
package pushover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hass-skill/internal/domain"
)

const DefaultAPIURL = "https://api.pushover.net/1/messages.json"

type Client struct {
	token      string
	userKey    string
	apiURL     string
	httpClient *http.Client
}

func NewClient(token, userKey string) *Client {
	return &Client{
		token:      token,
		userKey:    userKey,
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithAPIURL points the client at another endpoint.
func (c *Client) WithAPIURL(apiURL string) *Client {
	c.apiURL = apiURL
	return c
}

// Enabled reports whether both credentials are set. Notify is a no-op
// otherwise.
func (c *Client) Enabled() bool {
	return c.token != "" && c.userKey != ""
}

// Notify pushes one failure. Problems that only the user can fix, such as a
// missing setup or rejected credentials, are sent with high priority.
func (c *Client) Notify(ctx context.Context, failure domain.Failure) error {
	if !c.Enabled() {
		return nil
	}

	data := url.Values{}
	data.Set("token", c.token)
	data.Set("user", c.userKey)
	data.Set("title", "Home Assistant: "+failure.Kind.String())
	data.Set("message", message(failure))
	data.Set("priority", priority(failure.Kind))
	if failure.URL != "" {
		data.Set("url", failure.URL)
		data.Set("url_title", "Open Home Assistant")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.apiURL,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover error: %s", resp.Status)
	}

	return nil
}

func message(f domain.Failure) string {
	source := f.Source
	if source == "" {
		source = "request"
	}
	if f.Err == nil {
		return source + " failed"
	}
	return fmt.Sprintf("%s failed: %v", source, f.Err)
}

func priority(kind domain.ErrorKind) string {
	switch kind {
	case domain.ErrSetupMissing, domain.ErrInvalidURL, domain.ErrTLSFailure, domain.ErrAuthFailure:
		return "1"
	default:
		return "0"
	}
}
