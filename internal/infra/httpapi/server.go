// Package httpapi lets a voice host drive the skill over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hass-skill/internal/application"
	"hass-skill/internal/domain"
)

const requestIDHeader = "X-Request-ID"

// Renderer turns a response into the sentences to speak.
type Renderer interface {
	Sentences(resp domain.Response) []string
}

type Options struct {
	Addr      string
	AuthToken string
	// RateLimit is the number of requests per minute per client; 0 disables
	// rate limiting.
	RateLimit int
}

type Server struct {
	opts     Options
	skill    application.IntentHandler
	renderer Renderer
	logger   *slog.Logger
	router   *gin.Engine

	mu      sync.Mutex
	server  *http.Server
	running bool
}

// SpeechResponse is the JSON body returned for intents and utterances.
type SpeechResponse struct {
	Handled        bool     `json:"handled"`
	ExpectResponse bool     `json:"expect_response"`
	Speech         []string `json:"speech"`
}

type utteranceRequest struct {
	Utterance string `json:"utterance" binding:"required"`
}

func NewServer(opts Options, skill application.IntentHandler, renderer Renderer, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		opts:     opts,
		skill:    skill,
		renderer: renderer,
		logger:   logger,
		router:   gin.New(),
	}

	s.router.Use(gin.Recovery(), s.requestID())
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/")
	if opts.RateLimit > 0 {
		api.Use(NewRateLimiter(opts.RateLimit, time.Minute).Middleware())
	}
	api.Use(s.authenticate())
	api.POST("/intents/:name", s.handleIntent)
	api.POST("/fallback", s.handleFallback)
	api.POST("/media/pause", s.handleMedia(skill.PauseMedia))
	api.POST("/media/resume", s.handleMedia(skill.ResumeMedia))

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP server starting", "addr", s.opts.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}

	s.running = false
	return nil
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// authenticate accepts the token from the X-Auth-Token header or the token
// query parameter.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.AuthToken == "" {
			c.Next()
			return
		}

		token := c.GetHeader("X-Auth-Token")
		if token == "" {
			token = c.Query("token")
		}
		if token != s.opts.AuthToken {
			s.logger.Warn("unauthorized request", "remote_addr", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("unauthorized"))
			return
		}
		c.Next()
	}
}

func (s *Server) handleIntent(c *gin.Context) {
	raw := map[string]any{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&raw); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("slots must be a JSON object"))
			return
		}
	}

	intent := domain.NewIntent(c.Param("name"), domain.SlotValues(raw))
	s.logger.Info("intent received", "intent", intent.Name, "request_id", c.GetString("request_id"))

	resp := s.skill.HandleIntent(c.Request.Context(), intent)
	c.JSON(http.StatusOK, s.speech(resp))
}

func (s *Server) handleFallback(c *gin.Context) {
	var req utteranceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Utterance) == "" {
		c.JSON(http.StatusBadRequest, errorBody("utterance is required"))
		return
	}

	s.logger.Info("fallback utterance received", "utterance", req.Utterance, "request_id", c.GetString("request_id"))

	resp := s.skill.HandleUtterance(c.Request.Context(), req.Utterance)
	c.JSON(http.StatusOK, s.speech(resp))
}

func (s *Server) handleMedia(action func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := action(c.Request.Context()); err != nil {
			s.logger.Error("media control failed", "path", c.FullPath(), "error", err)
			c.JSON(http.StatusBadGateway, errorBody(err.Error()))
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"status": "ok", "running": running})
}

func (s *Server) speech(resp domain.Response) SpeechResponse {
	sentences := s.renderer.Sentences(resp)
	if sentences == nil {
		sentences = []string{}
	}
	return SpeechResponse{
		Handled:        resp.Handled,
		ExpectResponse: resp.ExpectResponse,
		Speech:         sentences,
	}
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}
