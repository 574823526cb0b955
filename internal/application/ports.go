package application

import (
	"context"

	"hass-skill/internal/domain"
)

// EntityLister is the read side of Home Assistant the resolver needs.
type EntityLister interface {
	Entities(ctx context.Context) ([]domain.Entity, error)
}

// HomeAssistant is the remote smart-home server.
type HomeAssistant interface {
	EntityLister
	Entity(ctx context.Context, entityID string) (domain.Entity, error)
	CallService(ctx context.Context, call domain.ServiceCall) error
	Converse(ctx context.Context, utterance string) (string, error)
}

// Connector builds a client from the current settings. It returns an error
// of kind SetupMissing when no server has been configured.
type Connector func() (HomeAssistant, error)

// Lexicon maps a spoken verb in the active locale onto one of the canonical
// verbs on, off, toggle, increase and decrease.
type Lexicon interface {
	Verb(word string) (string, bool)
}

// IntentHandler is what a host adapter drives.
type IntentHandler interface {
	HandleIntent(ctx context.Context, intent domain.Intent) domain.Response
	HandleUtterance(ctx context.Context, utterance string) domain.Response
	PauseMedia(ctx context.Context) error
	ResumeMedia(ctx context.Context) error
}
