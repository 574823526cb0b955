package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hass-skill/config"
)

func TestParseSlots(t *testing.T) {
	slots, err := parseSlots([]string{"entity=kitchen light", "brightnessvalue=40", "name=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"entity":          "kitchen light",
		"brightnessvalue": "40",
		"name":            "a=b",
	}, slots)

	_, err = parseSlots([]string{"entity"})
	assert.Error(t, err)
	_, err = parseSlots([]string{"=value"})
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "entity_id", "light.kitchen")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "light.kitchen", entry["entity_id"])
}

func fakeHomeAssistant(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/states":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"entity_id":"light.kitchen","state":"on","attributes":{"friendly_name":"Kitchen Lights","brightness":200}},
				{"entity_id":"light.garage","state":"off","attributes":{"friendly_name":"Garage Light"}}
			]`))
		case "/api/services/homeassistant/turn_off":
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, haURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "homeassistant:\n  url: " + haURL + "\n  token: test\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestIntentCommand(t *testing.T) {
	srv := fakeHomeAssistant(t)
	path := writeConfig(t, srv.URL)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run(context.Background(), []string{
		"hass-skill", "--config", path, "--env", filepath.Join(t.TempDir(), "none.env"),
		"intent", "--slot", "entity=kitchen light", "--slot", "action=off", "switch",
	})
	require.NoError(t, err)

	assert.Equal(t, "Kitchen Lights is now off.\n", out.String())
}

func TestResolveCommand(t *testing.T) {
	srv := fakeHomeAssistant(t)
	path := writeConfig(t, srv.URL)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run(context.Background(), []string{
		"hass-skill", "--config", path, "--env", filepath.Join(t.TempDir(), "none.env"),
		"resolve", "--domain", "light", "kitchen", "light",
	})
	require.NoError(t, err)

	assert.Equal(t, "light.kitchen\tKitchen Lights\t100\n", out.String())
}
