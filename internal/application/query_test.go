package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hass-skill/internal/application"
	"hass-skill/internal/domain"
)

func TestSensor(t *testing.T) {
	ha := &fakeHA{entities: []domain.Entity{
		entity("sensor.outside_temperature", "Outside Temperature", "12.5", map[string]any{"unit_of_measurement": "°C"}),
		entity("light.outside", "Outside Temperature", "on", nil),
	}}

	resp := newDispatcher(ha).HandleIntent(context.Background(), domain.NewIntent("sensor", map[string]string{
		"entity": "outside temperature",
	}))

	require.Len(t, resp.Dialogs, 1)
	assert.Equal(t, application.DialogSensor, resp.Dialogs[0].Key)
	assert.Equal(t, map[string]string{
		"dev_name": "Outside Temperature",
		"value":    "12.5",
		"unit":     "°C",
	}, resp.Dialogs[0].Data)
	assert.Empty(t, ha.calls)
}

func TestSensor_ReadsCurrentValue(t *testing.T) {
	ha := &fakeHA{
		entities: []domain.Entity{entity("sensor.power", "Power", "120", nil)},
		fresh: map[string]domain.Entity{
			"sensor.power": entity("sensor.power", "Power", "135", map[string]any{"unit_of_measurement": "W"}),
		},
	}

	resp := newDispatcher(ha).HandleIntent(context.Background(), domain.NewIntent("sensor", map[string]string{"entity": "power"}))

	require.Len(t, resp.Dialogs, 1)
	assert.Equal(t, "135", resp.Dialogs[0].Data["value"])
	assert.Equal(t, "W", resp.Dialogs[0].Data["unit"])
}

func TestTracker(t *testing.T) {
	ha := &fakeHA{entities: []domain.Entity{
		entity("device_tracker.anna_phone", "Anna Phone", "home", nil),
	}}

	resp := newDispatcher(ha).HandleIntent(context.Background(), domain.NewIntent("tracker", map[string]string{
		"entity": "anna",
	}))

	require.Len(t, resp.Dialogs, 1)
	assert.Equal(t, application.DialogTrackerFound, resp.Dialogs[0].Key)
	assert.Equal(t, "home", resp.Dialogs[0].Data["location"])
}

func TestTracker_Unknown(t *testing.T) {
	ha := &fakeHA{entities: []domain.Entity{
		entity("device_tracker.anna_phone", "Anna Phone", "home", nil),
	}}

	resp := newDispatcher(ha).HandleIntent(context.Background(), domain.NewIntent("tracker", map[string]string{
		"entity": "garage door",
	}))

	require.Len(t, resp.Dialogs, 1)
	assert.Equal(t, application.DialogDeviceUnknown, resp.Dialogs[0].Key)
	assert.Equal(t, "garage door", resp.Dialogs[0].Data["dev_name"])
	assert.True(t, resp.Handled)
}

func TestQueryAttribute(t *testing.T) {
	ha := &fakeHA{entities: []domain.Entity{
		entity("climate.hall", "Hall Thermostat", "heat", map[string]any{
			"current_temperature": 20.5,
			"hvac_action":         "heating",
		}),
		entity("light.hall", "Hall Light", "on", map[string]any{
			"brightness": 180,
		}),
	}}

	resp := newDispatcher(ha).HandleIntent(context.Background(), domain.NewIntent("query_attribute", map[string]string{
		"name":      "hall thermostat",
		"attribute": "current temperature",
	}))

	require.Len(t, resp.Dialogs, 1)
	assert.Equal(t, application.DialogQueryAttribute, resp.Dialogs[0].Key)
	assert.Equal(t, map[string]string{
		"name":      "Hall Thermostat",
		"attribute": "current temperature",
		"value":     "20.5",
	}, resp.Dialogs[0].Data)
}

func TestQueryAttribute_NothingToReport(t *testing.T) {
	ha := &fakeHA{entities: []domain.Entity{
		entity("light.hall", "Hall Light", "on", map[string]any{"color_mode": "hs"}),
	}}

	resp := newDispatcher(ha).HandleIntent(context.Background(), domain.NewIntent("query_attribute", map[string]string{
		"name":      "hall light",
		"attribute": "battery",
	}))

	assert.Empty(t, resp.Dialogs)
	assert.True(t, resp.Handled)
}

func TestQueryAttribute_MissingSlot(t *testing.T) {
	resp := newDispatcher(&fakeHA{}).HandleIntent(context.Background(), domain.NewIntent("query_attribute", map[string]string{
		"name": "hall light",
	}))

	assert.Equal(t, []string{application.DialogSorry}, dialogKeys(resp))
}
