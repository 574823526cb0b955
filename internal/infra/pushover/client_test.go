package pushover_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hass-skill/internal/application"
	"hass-skill/internal/domain"
	"hass-skill/internal/infra/pushover"
)

var _ application.Notifier = (*pushover.Client)(nil)

func capture(t *testing.T) (*httptest.Server, *url.Values) {
	t.Helper()
	got := &url.Values{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		*got = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestNotify(t *testing.T) {
	srv, got := capture(t)

	client := pushover.NewClient("app-token", "user-key").WithAPIURL(srv.URL)
	err := client.Notify(context.Background(), domain.NewFailure("switch",
		&domain.Error{Kind: domain.ErrTimeout, URL: "http://ha.local:8123"}))
	require.NoError(t, err)

	assert.Equal(t, "app-token", got.Get("token"))
	assert.Equal(t, "user-key", got.Get("user"))
	assert.Equal(t, "Home Assistant: timeout", got.Get("title"))
	assert.Equal(t, "switch failed: timeout (http://ha.local:8123)", got.Get("message"))
	assert.Equal(t, "0", got.Get("priority"))
	assert.Equal(t, "http://ha.local:8123", got.Get("url"))
}

func TestNotify_UserFixableIsHighPriority(t *testing.T) {
	srv, got := capture(t)

	client := pushover.NewClient("app-token", "user-key").WithAPIURL(srv.URL)
	err := client.Notify(context.Background(), domain.NewFailure("fallback",
		&domain.Error{Kind: domain.ErrAuthFailure, StatusCode: 401, Reason: "Unauthorized"}))
	require.NoError(t, err)

	assert.Equal(t, "Home Assistant: auth failure", got.Get("title"))
	assert.Equal(t, "1", got.Get("priority"))
	assert.Empty(t, got.Get("url"))
}

func TestNotify_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := pushover.NewClient("app-token", "user-key").WithAPIURL(srv.URL).
		Notify(context.Background(), domain.Failure{Kind: domain.ErrHTTPFailure})

	assert.ErrorContains(t, err, "400")
}

func TestNotify_DisabledWithoutCredentials(t *testing.T) {
	client := pushover.NewClient("", "user-key").WithAPIURL("http://127.0.0.1:1")

	assert.False(t, client.Enabled())
	assert.NoError(t, client.Notify(context.Background(), domain.Failure{}))
}
