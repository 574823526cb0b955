package application

import (
	"context"

	"hass-skill/internal/domain"
)

var automationDomains = []string{"automation", "scene", "script"}

func (d *Dispatcher) handleAutomation(ctx context.Context, t *turn, intent domain.Intent) error {
	name, _ := intent.Slot(domain.SlotEntity)

	entity, err := t.resolve(ctx, name, automationDomains...)
	if err != nil {
		return err
	}

	d.logger.Debug("triggering automation/scene/script", "entity_id", entity.ID)

	call := domain.NewServiceCall("homeassistant", "turn_on")
	dialog := DialogAutomationTrigger
	switch entity.Domain() {
	case "automation":
		call = domain.NewServiceCall("automation", "trigger")
	case "scene":
		dialog = DialogDeviceOn
	}

	if err := t.ha.CallService(ctx, call.Target(entity.ID)); err != nil {
		return err
	}

	t.resp.Speak(dialog, entity.DialogData())
	return nil
}
