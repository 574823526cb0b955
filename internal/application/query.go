package application

import (
	"context"
	"maps"
	"slices"
	"strings"

	"hass-skill/internal/domain"
	"hass-skill/internal/fuzzy"
)

func (d *Dispatcher) handleSensor(ctx context.Context, t *turn, intent domain.Intent) error {
	name, _ := intent.Slot(domain.SlotEntity)

	entity, err := t.resolveFresh(ctx, name, "sensor")
	if err != nil {
		return err
	}

	unit, _ := entity.Attr("unit_of_measurement")
	t.resp.Speak(DialogSensor, map[string]string{
		"dev_name": entity.Name,
		"value":    entity.State,
		"unit":     unit,
	})
	return nil
}

func (d *Dispatcher) handleTracker(ctx context.Context, t *turn, intent domain.Intent) error {
	name, _ := intent.Slot(domain.SlotEntity)

	entity, err := t.resolve(ctx, name, "device_tracker")
	if err != nil {
		return err
	}

	t.resp.Speak(DialogTrackerFound, map[string]string{
		"dev_name": entity.Name,
		"location": entity.State,
	})
	return nil
}

// bestAttribute finds the attribute key closest to the spoken attribute.
func bestAttribute(entity domain.Entity, attribute string) (string, error) {
	keys := slices.Sorted(maps.Keys(entity.Attributes))
	match, ok := fuzzy.ExtractOne(attribute, keys, fuzzy.Threshold)
	if !ok {
		return "", &domain.Error{Kind: domain.ErrMissingAttribute, Name: attribute}
	}
	return match.Choice, nil
}

func (d *Dispatcher) handleQueryAttribute(ctx context.Context, t *turn, intent domain.Intent) error {
	attribute, ok := intent.Slot(domain.SlotAttribute)
	if !ok {
		t.resp.Speak(DialogSorry, nil)
		return nil
	}
	name, _ := intent.Slot(domain.SlotName)

	entities, err := t.resolver.FindAll(ctx, name, nil)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		t.resp.Speak(DialogNoEntity, map[string]string{"name": name})
		return nil
	}

	reported := 0
	for _, entity := range entities {
		key, err := bestAttribute(entity, attribute)
		if err != nil {
			continue
		}
		value, _ := entity.Attr(key)
		t.resp.Speak(DialogQueryAttribute, map[string]string{
			"name":      entity.Name,
			"attribute": strings.ReplaceAll(key, "_", " "),
			"value":     value,
		})
		reported++
	}

	if reported == 0 {
		d.logger.Info("no attribute matched", "attribute", attribute, "entities", len(entities))
	}
	return nil
}
