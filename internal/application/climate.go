package application

import (
	"context"

	"hass-skill/internal/domain"
)

const defaultThermostatName = "Thermostat"

var climateDomains = []string{"climate"}

// thermostatTarget picks the thermostat a climate intent is about. Without a
// name slot the service call is left untargeted so the server applies it to
// every climate entity.
func (d *Dispatcher) thermostatTarget(ctx context.Context, t *turn, intent domain.Intent) (*domain.Entity, bool, error) {
	name, named := intent.Slot(domain.SlotName)

	entities, err := t.resolver.FindAll(ctx, name, climateDomains)
	if err != nil {
		return nil, false, err
	}
	if len(entities) == 0 {
		if named {
			t.resp.Speak(DialogNoEntity, map[string]string{"name": name})
		} else {
			t.resp.Speak(DialogNoThermostat, nil)
		}
		return nil, false, nil
	}
	if !named {
		return nil, true, nil
	}
	return &entities[0], true, nil
}

func (d *Dispatcher) callClimate(ctx context.Context, t *turn, intent domain.Intent, call domain.ServiceCall) (string, bool, error) {
	target, ok, err := d.thermostatTarget(ctx, t, intent)
	if err != nil || !ok {
		return "", false, err
	}

	spokenName := defaultThermostatName
	if target != nil {
		call = call.Target(target.ID)
		spokenName = target.Name
	}

	if err := t.ha.CallService(ctx, call); err != nil {
		return "", false, err
	}
	return spokenName, true, nil
}

func (d *Dispatcher) climateModeHandler(mode string) handlerFunc {
	return func(ctx context.Context, t *turn, intent domain.Intent) error {
		call := domain.NewServiceCall("climate", "set_operation_mode").With("operation_mode", mode)

		name, ok, err := d.callClimate(ctx, t, intent, call)
		if err != nil || !ok {
			return err
		}

		t.resp.Speak(DialogClimateMode+mode, map[string]string{
			"name":           name,
			"operation_mode": mode,
		})
		return nil
	}
}

func (d *Dispatcher) handleClimateSetTemperature(ctx context.Context, t *turn, intent domain.Intent) error {
	raw, _ := intent.Slot(domain.SlotTemperature)
	temperature, ok := parseNumber(raw)
	if !ok {
		d.logger.Debug("unparsable temperature", "temperature", raw)
		t.resp.Speak(DialogSorry, nil)
		return nil
	}

	call := domain.NewServiceCall("climate", "set_temperature").With("temperature", temperature)

	name, ok, err := d.callClimate(ctx, t, intent, call)
	if err != nil || !ok {
		return err
	}

	t.resp.Speak(DialogClimateSetTemp, map[string]string{
		"name":        name,
		"temperature": domain.FormatValue(temperature),
	})
	return nil
}
