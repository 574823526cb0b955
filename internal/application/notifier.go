package application

import (
	"context"
	"strings"

	"hass-skill/internal/domain"
)

// Notifier is told whenever talking to Home Assistant failed.
type Notifier interface {
	Notify(ctx context.Context, failure domain.Failure) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ domain.Failure) error {
	return nil
}

// canonicalLexicon understands only the canonical verbs themselves.
type canonicalLexicon struct{}

func (canonicalLexicon) Verb(word string) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	switch word {
	case VerbOn, VerbOff, VerbToggle, VerbIncrease, VerbDecrease:
		return word, true
	}
	return "", false
}
