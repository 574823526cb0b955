package application

import (
	"context"

	"hass-skill/internal/domain"
)

var (
	switchDomains = []string{"group", "light", "fan", "switch", "scene", "input_boolean", "climate"}
	onOffDomains  = []string{"input_boolean", "light", "switch"}
)

func (d *Dispatcher) handleSwitch(ctx context.Context, t *turn, intent domain.Intent) error {
	name, _ := intent.Slot(domain.SlotEntity)
	rawAction, _ := intent.Slot(domain.SlotAction)

	entity, err := t.resolve(ctx, name, switchDomains...)
	if err != nil {
		return err
	}

	action, ok := d.lexicon.Verb(rawAction)
	if !ok {
		d.logger.Debug("unknown switch action", "action", rawAction)
		t.resp.Speak(DialogSorry, nil)
		return nil
	}

	if entity.State == action {
		data := entity.DialogData()
		data["action"] = action
		t.resp.Speak(DialogDeviceAlready, data)
		return nil
	}

	switch action {
	case VerbToggle:
		call := domain.NewServiceCall("homeassistant", "toggle").Target(entity.ID)
		if err := t.ha.CallService(ctx, call); err != nil {
			return err
		}
		// The new state is not read back; assume the toggle flipped it.
		spoken := DialogDeviceOff
		if entity.State == "off" {
			spoken = DialogDeviceOn
		}
		t.resp.Speak(spoken, entity.DialogData())
	case VerbOn, VerbOff:
		call := domain.NewServiceCall("homeassistant", "turn_"+action).Target(entity.ID)
		if err := t.ha.CallService(ctx, call); err != nil {
			return err
		}
		t.resp.Speak("homeassistant.device."+action, entity.DialogData())
	default:
		t.resp.Speak(DialogSorry, nil)
	}
	return nil
}

func (d *Dispatcher) handleTurnOn(ctx context.Context, t *turn, intent domain.Intent) error {
	return d.turnOnOff(ctx, t, intent, "turn_on", DialogTurnOn)
}

func (d *Dispatcher) handleTurnOff(ctx context.Context, t *turn, intent domain.Intent) error {
	return d.turnOnOff(ctx, t, intent, "turn_off", DialogTurnOff)
}

func (d *Dispatcher) turnOnOff(ctx context.Context, t *turn, intent domain.Intent, service, dialog string) error {
	name, ok := intent.Slot(domain.SlotName)
	if !ok {
		t.resp.Speak(DialogSorry, nil)
		return nil
	}

	entities, err := t.resolver.FindAll(ctx, name, onOffDomains)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		t.resp.Speak(DialogNoEntity, map[string]string{"name": name})
		return nil
	}

	target := entities[0]
	call := domain.NewServiceCall(target.Domain(), service).Target(target.ID)
	if err := t.ha.CallService(ctx, call); err != nil {
		return err
	}

	t.resp.Speak(dialog, map[string]string{"name": target.Name, "entity_id": target.ID})
	return nil
}
