package application

import (
	"context"
	"fmt"

	"hass-skill/internal/domain"
)

// PauseMedia pauses every media player, e.g. while the assistant is speaking.
func (d *Dispatcher) PauseMedia(ctx context.Context) error {
	return d.media(ctx, "media_pause")
}

func (d *Dispatcher) ResumeMedia(ctx context.Context) error {
	return d.media(ctx, "media_play")
}

func (d *Dispatcher) media(ctx context.Context, service string) error {
	ha, err := d.client()
	if err != nil {
		return err
	}
	call := domain.NewServiceCall("media_player", service)
	if err := ha.CallService(ctx, call); err != nil {
		d.notify(ctx, domain.NewFailure(call.String(), err))
		return fmt.Errorf("media player %s: %w", service, err)
	}
	return nil
}
