package application

import (
	"context"
	"math"
	"strconv"
	"strings"

	"hass-skill/internal/domain"
)

const (
	maxBrightness = 255
	// minBrightness keeps a dimmed light from switching itself off.
	minBrightness = 10

	defaultBrightnessPercent = 10.0
)

var lightDomains = []string{"group", "light"}

// BrightnessFromPercent maps 0–100 % onto the 0–255 device range.
func BrightnessFromPercent(percent float64) int {
	return int(math.Round(percent / 100 * maxBrightness))
}

// Dim lowers current by delta. The result stays within [10, 255] even for a
// negative delta.
func Dim(current, delta int) int {
	return min(max(current-delta, minBrightness), maxBrightness)
}

// Brighten raises current by delta, staying within [0, 255].
func Brighten(current, delta int) int {
	return min(max(current+delta, 0), maxBrightness)
}

// parseNumber accepts finite decimal numbers only; NaN and infinities are
// rejected.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// brightnessRequest reads the brightnessvalue slot. Out of range percentages
// are reported but still used.
func brightnessRequest(t *turn, intent domain.Intent) (float64, bool) {
	raw, ok := intent.Slot(domain.SlotBrightnessValue)
	if !ok {
		return defaultBrightnessPercent, true
	}
	percent, ok := parseNumber(raw)
	if !ok {
		t.resp.Speak(DialogSorry, nil)
		return 0, false
	}
	if percent > 100 || percent < 0 {
		t.resp.Speak(DialogBrightnessBadRequest, nil)
	}
	return percent, true
}

func (d *Dispatcher) handleSetBrightness(ctx context.Context, t *turn, intent domain.Intent) error {
	name, _ := intent.Slot(domain.SlotEntity)
	percent, ok := brightnessRequest(t, intent)
	if !ok {
		return nil
	}
	value := BrightnessFromPercent(percent)

	d.logger.Debug("set brightness", "entity", name, "brightness", value, "percent", percent)

	entity, err := t.resolve(ctx, name, lightDomains...)
	if err != nil {
		return err
	}

	call := domain.NewServiceCall("homeassistant", "turn_on").
		Target(entity.ID).
		With("brightness", value)
	if err := t.ha.CallService(ctx, call); err != nil {
		return err
	}

	t.resp.Speak(DialogBrightnessDimmed, map[string]string{
		"dev_name":   entity.Name,
		"entity_id":  entity.ID,
		"brightness": strconv.Itoa(value),
		"percent":    domain.FormatValue(percent),
	})
	return nil
}

// adjustDirection works out whether the user asked for brighter or darker,
// either from the matched verb keyword or from a free action word.
func (d *Dispatcher) adjustDirection(intent domain.Intent) (string, bool) {
	switch {
	case intent.Has(domain.SlotDecreaseVerb), intent.Has(domain.SlotLightDimVerb):
		return VerbDecrease, true
	case intent.Has(domain.SlotIncreaseVerb), intent.Has(domain.SlotLightBrightenVerb):
		return VerbIncrease, true
	}

	action, ok := intent.Slot(domain.SlotAction)
	if !ok {
		return "", false
	}
	verb, ok := d.lexicon.Verb(action)
	if !ok || (verb != VerbIncrease && verb != VerbDecrease) {
		return "", false
	}
	return verb, true
}

func (d *Dispatcher) handleAdjustBrightness(ctx context.Context, t *turn, intent domain.Intent) error {
	name, _ := intent.Slot(domain.SlotEntity)
	percent, ok := brightnessRequest(t, intent)
	if !ok {
		return nil
	}
	delta := BrightnessFromPercent(percent)

	d.logger.Debug("adjust brightness", "entity", name, "delta", delta)

	entity, err := t.resolveFresh(ctx, name, lightDomains...)
	if err != nil {
		return err
	}

	direction, ok := d.adjustDirection(intent)
	if !ok {
		t.resp.Speak(DialogSorry, nil)
		return nil
	}

	if entity.State == "off" {
		t.resp.Speak(DialogCantDimOff, entity.DialogData())
		return nil
	}

	current, ok := entity.Number("brightness")
	if !ok {
		t.resp.Speak(DialogCantDimDimmable, entity.DialogData())
		return nil
	}

	target, dialog := Brighten(int(current), delta), DialogBrightnessIncreased
	if direction == VerbDecrease {
		target, dialog = Dim(int(current), delta), DialogBrightnessDecreased
	}

	call := domain.NewServiceCall("homeassistant", "turn_on").
		Target(entity.ID).
		With("brightness", target)
	if err := t.ha.CallService(ctx, call); err != nil {
		return err
	}

	t.resp.Speak(dialog, map[string]string{
		"dev_name":   entity.Name,
		"entity_id":  entity.ID,
		"brightness": strconv.Itoa(target),
	})
	return nil
}
