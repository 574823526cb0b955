package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hass-skill/internal/domain"
)

func TestNewIntent(t *testing.T) {
	intent := domain.NewIntent("Set_Brightness", map[string]string{"BrightnessValue": " 40 ", "Entity": ""})

	assert.Equal(t, domain.IntentSetBrightness, intent.Name)
	v, ok := intent.Slot(domain.SlotBrightnessValue)
	assert.True(t, ok)
	assert.Equal(t, "40", v)

	_, ok = intent.Slot(domain.SlotEntity)
	assert.False(t, ok)
	assert.True(t, intent.Has(domain.SlotEntity))
}

func TestSlotValues(t *testing.T) {
	slots := domain.SlotValues(map[string]any{
		"entity":          "kitchen",
		"brightnessvalue": 50.0,
		"temperature":     21.5,
		"confirm":         true,
		"missing":         nil,
		"nested":          map[string]any{"a": "b"},
		"list":            []any{"x"},
	})

	assert.Equal(t, map[string]string{
		"entity":          "kitchen",
		"brightnessvalue": "50",
		"temperature":     "21.5",
		"confirm":         "on",
	}, slots)
}
