package domain

import "strings"

type IntentName string

const (
	IntentSetBrightness    IntentName = "set_brightness"
	IntentAdjustBrightness IntentName = "adjust_brightness"
	IntentSwitch           IntentName = "switch"
	IntentTurnOn           IntentName = "turn_on"
	IntentTurnOff          IntentName = "turn_off"
	IntentAutomation       IntentName = "automation"
	IntentSensor           IntentName = "sensor"
	IntentTracker          IntentName = "tracker"
	IntentQueryAttribute   IntentName = "query_attribute"
	IntentClimateCool      IntentName = "climate_cool"
	IntentClimateHeat      IntentName = "climate_heat"
	IntentClimateOff       IntentName = "climate_off"
	IntentClimateSetTemp   IntentName = "climate_set_temperature"
)

// Slot names produced by the host's intent templates.
const (
	SlotEntity          = "entity"
	SlotName            = "name"
	SlotAction          = "action"
	SlotAttribute       = "attribute"
	SlotTemperature     = "temperature"
	SlotBrightnessValue = "brightnessvalue"

	SlotIncreaseVerb      = "increaseverb"
	SlotDecreaseVerb      = "decreaseverb"
	SlotLightBrightenVerb = "lightbrightenverb"
	SlotLightDimVerb      = "lightdimverb"
)

// Intent is what the host NLU layer recognized in one utterance.
type Intent struct {
	Name  IntentName
	Slots map[string]string
}

// NewIntent builds an intent with lower-cased slot names.
func NewIntent(name string, slots map[string]string) Intent {
	normalized := make(map[string]string, len(slots))
	for k, v := range slots {
		normalized[strings.ToLower(k)] = v
	}
	return Intent{
		Name:  IntentName(strings.ToLower(name)),
		Slots: normalized,
	}
}

// Slot returns the slot value and whether it was set to something non-blank.
func (i Intent) Slot(name string) (string, bool) {
	v, ok := i.Slots[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Has reports whether the slot was filled at all, even by an empty keyword.
func (i Intent) Has(name string) bool {
	_, ok := i.Slots[name]
	return ok
}

// SlotValues turns decoded JSON slot values into strings. Numbers and
// booleans are formatted like entity attributes; nulls, objects and arrays
// are dropped.
func SlotValues(raw map[string]any) map[string]string {
	slots := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case nil, map[string]any, []any:
			continue
		}
		slots[k] = FormatValue(v)
	}
	return slots
}
