package homeassistant

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"

	"hass-skill/internal/domain"
)

type Client struct {
	baseURL    string
	token      string
	password   string
	httpClient *http.Client
}

// NewClient validates settings and builds a client. It never performs I/O.
func NewClient(s Settings) (*Client, error) {
	s = s.Resolve()
	if !s.Configured() {
		return nil, domain.ErrNotConfigured
	}

	// Remove trailing slash if present
	baseURL := strings.TrimSuffix(strings.TrimSpace(s.URL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &domain.Error{Kind: domain.ErrInvalidURL, URL: baseURL, Err: err}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if s.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if s.SocksProxy != "" {
		dialer, err := proxy.SOCKS5("tcp", s.SocksProxy, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("socks proxy %s: %w", s.SocksProxy, err)
		}
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &Client{
		baseURL:    baseURL,
		token:      s.Token,
		password:   s.Password,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// state mirrors one element of GET /api/states.
type state struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged string         `json:"last_changed"`
}

func (s state) entity() domain.Entity {
	name := s.EntityID
	if friendlyName, ok := s.Attributes["friendly_name"].(string); ok && friendlyName != "" {
		name = friendlyName
	}
	attrs := s.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return domain.Entity{
		ID:         s.EntityID,
		Name:       name,
		State:      s.State,
		Attributes: attrs,
	}
}

// Entities lists every entity the server knows about, in server order.
func (c *Client) Entities(ctx context.Context) ([]domain.Entity, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/states", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}

	var states []state
	if err := json.Unmarshal(resp, &states); err != nil {
		return nil, fmt.Errorf("parsing states: %w", err)
	}

	entities := make([]domain.Entity, 0, len(states))
	for _, s := range states {
		entities = append(entities, s.entity())
	}
	return entities, nil
}

// Entity fetches a single entity. A 404 is reported as EntityNotFound.
func (c *Client) Entity(ctx context.Context, entityID string) (domain.Entity, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil)
	if err != nil {
		var herr *domain.Error
		if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
			return domain.Entity{}, domain.NotFound(entityID)
		}
		return domain.Entity{}, fmt.Errorf("fetching state of %s: %w", entityID, err)
	}

	var s state
	if err := json.Unmarshal(resp, &s); err != nil {
		return domain.Entity{}, fmt.Errorf("parsing state of %s: %w", entityID, err)
	}
	return s.entity(), nil
}

func (c *Client) CallService(ctx context.Context, call domain.ServiceCall) error {
	if call.Domain == "" || call.Service == "" {
		return fmt.Errorf("invalid service %q", call.String())
	}

	data := call.Data
	if data == nil {
		data = map[string]any{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(call.Domain), url.PathEscape(call.Service))
	if _, err := c.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("calling %s: %w", call, err)
	}
	return nil
}

type conversationReply struct {
	Speech   *speech `json:"speech"`
	Response *struct {
		Speech *speech `json:"speech"`
	} `json:"response"`
}

type speech struct {
	Plain struct {
		Speech string `json:"speech"`
	} `json:"plain"`
}

// Converse hands an utterance to the conversation agent and returns its
// spoken answer. Both the legacy and the current reply layouts are accepted.
func (c *Client) Converse(ctx context.Context, utterance string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": utterance})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/conversation/process", body)
	if err != nil {
		return "", fmt.Errorf("conversation: %w", err)
	}

	var reply conversationReply
	if err := json.Unmarshal(resp, &reply); err != nil {
		return "", fmt.Errorf("parsing conversation reply: %w", err)
	}

	switch {
	case reply.Response != nil && reply.Response.Speech != nil:
		return reply.Response.Speech.Plain.Speech, nil
	case reply.Speech != nil:
		return reply.Speech.Plain.Speech, nil
	default:
		return "", nil
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &domain.Error{Kind: domain.ErrInvalidURL, URL: target, Err: err}
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.password != "" {
		req.Header.Set("X-HA-Access", c.password)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(target, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &domain.Error{
			Kind:       domain.ErrAuthFailure,
			URL:        target,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &domain.Error{
			Kind:       domain.ErrHTTPFailure,
			URL:        target,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
			Err:        fmt.Errorf("home assistant API error: %s", strings.TrimSpace(string(respBody))),
		}
	}

	return respBody, nil
}
