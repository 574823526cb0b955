// Package bus connects the skill to a voice host's websocket message bus.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"hass-skill/internal/application"
	"hass-skill/internal/domain"
	"hass-skill/internal/infra"
)

// Message types the host publishes.
const (
	TypeAudioPause  = "mycroft.audio.service.pause"
	TypeAudioResume = "mycroft.audio.service.resume"
	TypeSpeak       = "speak"
)

const (
	DefaultIntentType   = "homeassistant.intent"
	DefaultFallbackType = "homeassistant.fallback"
)

// Message is the envelope every bus message shares.
type Message struct {
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
	Context map[string]any `json:"context,omitempty"`
}

type Renderer interface {
	Sentences(resp domain.Response) []string
}

type Options struct {
	URL          string
	IntentType   string
	FallbackType string
	Retry        infra.RetryConfig
	// ReconnectDelay is the pause after a lost connection before dialing
	// again.
	ReconnectDelay time.Duration
}

type Client struct {
	opts     Options
	skill    application.IntentHandler
	renderer Renderer
	logger   *slog.Logger
	dialer   *websocket.Dialer
}

func NewClient(opts Options, skill application.IntentHandler, renderer Renderer, logger *slog.Logger) *Client {
	if opts.IntentType == "" {
		opts.IntentType = DefaultIntentType
	}
	if opts.FallbackType == "" {
		opts.FallbackType = DefaultFallbackType
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	return &Client{
		opts:     opts,
		skill:    skill,
		renderer: renderer,
		logger:   logger,
		dialer:   websocket.DefaultDialer,
	}
}

// Run serves bus messages until ctx is done. A lost connection is dialed
// again; Run only fails when dialing gave up.
func (c *Client) Run(ctx context.Context) error {
	for {
		conn, err := c.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		err = c.serve(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		if isClosed(err) {
			c.logger.Info("bus closed the connection", "url", c.opts.URL)
		} else {
			c.logger.Warn("bus connection lost", "url", c.opts.URL, "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.opts.ReconnectDelay):
		}
	}
}

func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn
	err := infra.WithRetry(ctx, c.opts.Retry, func() error {
		var err error
		conn, _, err = c.dialer.DialContext(ctx, c.opts.URL, nil)
		if err != nil {
			c.logger.Debug("dialing bus failed", "url", c.opts.URL, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to bus %s: %w", c.opts.URL, err)
	}
	c.logger.Info("connected to bus", "url", c.opts.URL)
	return conn, nil
}

func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.logger.Debug("skipping malformed bus message", "error", err)
			continue
		}

		if err := c.handle(ctx, conn, msg); err != nil {
			return err
		}
	}
}

func (c *Client) handle(ctx context.Context, conn *websocket.Conn, msg Message) error {
	switch msg.Type {
	case TypeAudioPause:
		if err := c.skill.PauseMedia(ctx); err != nil {
			c.logger.Error("pausing media players", "error", err)
		}
	case TypeAudioResume:
		if err := c.skill.ResumeMedia(ctx); err != nil {
			c.logger.Error("resuming media players", "error", err)
		}
	case c.opts.IntentType:
		intent, ok := intentFrom(msg.Data)
		if !ok {
			c.logger.Debug("intent message without intent name")
			return nil
		}
		c.logger.Info("intent received", "intent", intent.Name)
		return c.speak(conn, msg, c.skill.HandleIntent(ctx, intent))
	case c.opts.FallbackType:
		utterance, _ := msg.Data["utterance"].(string)
		if utterance == "" {
			return nil
		}
		resp := c.skill.HandleUtterance(ctx, utterance)
		if err := c.speak(conn, msg, resp); err != nil {
			return err
		}
		return c.write(conn, Message{
			Type:    c.opts.FallbackType + ".response",
			Data:    map[string]any{"handled": resp.Handled},
			Context: msg.Context,
		})
	}
	return nil
}

// speak publishes one speak message per sentence. Only the last one asks the
// host to listen for an answer.
func (c *Client) speak(conn *websocket.Conn, origin Message, resp domain.Response) error {
	sentences := c.renderer.Sentences(resp)
	for i, sentence := range sentences {
		err := c.write(conn, Message{
			Type: TypeSpeak,
			Data: map[string]any{
				"utterance":       sentence,
				"expect_response": resp.ExpectResponse && i == len(sentences)-1,
			},
			Context: origin.Context,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) write(conn *websocket.Conn, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", msg.Type, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("writing %s message: %w", msg.Type, err)
	}
	return nil
}

// intentFrom reads {"intent": name, "slots": {...}}. Without a slots object
// every other top-level field is a slot.
func intentFrom(data map[string]any) (domain.Intent, bool) {
	name, _ := data["intent"].(string)
	if name == "" {
		return domain.Intent{}, false
	}

	source := data
	if nested, ok := data["slots"].(map[string]any); ok {
		source = nested
	}

	slots := domain.SlotValues(source)
	delete(slots, "intent")
	return domain.NewIntent(name, slots), true
}

func isClosed(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr)
}
