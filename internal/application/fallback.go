package application

import (
	"context"
	"strings"

	"hass-skill/internal/domain"
)

// NotUnderstood is what the conversation agent answers when it could not
// parse the utterance.
const NotUnderstood = "Sorry, I didn't understand that"

const fallbackSource = "fallback"

// HandleUtterance relays an utterance no other intent matched to the Home
// Assistant conversation agent. Handled is false whenever the agent had
// nothing useful to say, so other fallbacks get their turn.
func (d *Dispatcher) HandleUtterance(ctx context.Context, utterance string) domain.Response {
	var resp domain.Response

	if !d.enableFallback {
		return resp
	}

	ha, err := d.client()
	if err != nil {
		d.fail(ctx, &resp, fallbackSource, err)
		return resp
	}

	answer, err := ha.Converse(ctx, utterance)
	if err != nil {
		d.fail(ctx, &resp, fallbackSource, err)
		return resp
	}

	answer = strings.TrimSpace(answer)
	if answer == "" || answer == NotUnderstood {
		d.logger.Debug("conversation agent declined", "utterance", utterance)
		return resp
	}

	resp.Say(answer)
	resp.Handled = true
	resp.ExpectResponse = strings.HasSuffix(answer, "?")
	return resp
}
