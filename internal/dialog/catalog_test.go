package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hass-skill/internal/application"
	"hass-skill/internal/dialog"
	"hass-skill/internal/domain"
)

var _ application.Lexicon = (*dialog.Catalog)(nil)

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"de-de", "en-us"}, dialog.Languages())
}

func TestLoad(t *testing.T) {
	c, err := dialog.Load("de_DE")
	require.NoError(t, err)
	assert.Equal(t, "de-de", c.Language())

	c, err = dialog.Load("")
	require.NoError(t, err)
	assert.Equal(t, dialog.DefaultLanguage, c.Language())

	_, err = dialog.Load("xx-yy")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	c, err := dialog.Load("en-us")
	require.NoError(t, err)

	tests := []struct {
		name   string
		dialog domain.Dialog
		want   string
	}{
		{
			name:   "placeholders",
			dialog: domain.Dialog{Key: application.DialogSensor, Data: map[string]string{"dev_name": "Outside", "value": "12", "unit": "°C"}},
			want:   "Outside is 12 °C.",
		},
		{
			name:   "missing value",
			dialog: domain.Dialog{Key: application.DialogSensor, Data: map[string]string{"dev_name": "Door", "value": "open"}},
			want:   "Door is open.",
		},
		{
			name:   "http error",
			dialog: domain.Dialog{Key: application.DialogHTTPError, Data: map[string]string{"code": "502", "reason": "Bad Gateway"}},
			want:   "Home Assistant answered with error 502, Bad Gateway.",
		},
		{
			name:   "unknown key",
			dialog: domain.Dialog{Key: "homeassistant.something.new"},
			want:   "homeassistant something new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Render(tt.dialog))
		})
	}
}

func TestEveryDialogKeyHasTemplates(t *testing.T) {
	keys := []string{
		application.DialogSetupMissing, application.DialogOffline, application.DialogInvalidURL,
		application.DialogSSL, application.DialogWrongPassword, application.DialogHTTPError,
		application.DialogError, application.DialogSorry, application.DialogDeviceUnknown,
		application.DialogDeviceOn, application.DialogDeviceOff, application.DialogDeviceAlready,
		application.DialogNoEntity, application.DialogBrightnessBadRequest, application.DialogBrightnessDimmed,
		application.DialogBrightnessDecreased, application.DialogBrightnessIncreased,
		application.DialogCantDimOff, application.DialogCantDimDimmable, application.DialogTurnOn,
		application.DialogTurnOff, application.DialogAutomationTrigger, application.DialogSensor,
		application.DialogTrackerFound, application.DialogQueryAttribute, application.DialogNoThermostat,
		application.DialogClimateMode + "cool", application.DialogClimateMode + "heat",
		application.DialogClimateMode + "off", application.DialogClimateSetTemp,
	}

	for _, lang := range dialog.Languages() {
		c, err := dialog.Load(lang)
		require.NoError(t, err)
		for _, key := range keys {
			assert.NotEqual(t, c.Render(domain.Dialog{Key: key}), "", "%s: %s", lang, key)
			assert.NotContains(t, c.Render(domain.Dialog{Key: key}), key, "%s has no template for %s", lang, key)
		}
	}
}

func TestVerb(t *testing.T) {
	en, err := dialog.Load("en-us")
	require.NoError(t, err)
	de, err := dialog.Load("de-de")
	require.NoError(t, err)

	tests := []struct {
		catalog *dialog.Catalog
		word    string
		want    string
		ok      bool
	}{
		{en, "on", application.VerbOn, true},
		{en, "Dim", application.VerbDecrease, true},
		{en, "switch on", application.VerbOn, true},
		{en, "switch", application.VerbToggle, true},
		{en, "brighter", application.VerbIncrease, true},
		{en, "explode", "", false},
		{de, "ein", application.VerbOn, true},
		{de, "an", application.VerbOn, true},
		{de, "aus", application.VerbOff, true},
		{de, "umschalten", application.VerbToggle, true},
		{de, "dunkler", application.VerbDecrease, true},
		{de, "off", application.VerbOff, true},
	}

	for _, tt := range tests {
		got, ok := tt.catalog.Verb(tt.word)
		assert.Equal(t, tt.ok, ok, tt.word)
		assert.Equal(t, tt.want, got, tt.word)
	}
}

func TestSentences(t *testing.T) {
	c, err := dialog.Load("en-us")
	require.NoError(t, err)

	var resp domain.Response
	resp.Speak(application.DialogTurnOn, map[string]string{"name": "Desk Lamp"})
	resp.Say("Anything else?")

	assert.Equal(t, []string{"Turned on Desk Lamp.", "Anything else?"}, c.Sentences(resp))
}
