package application_test

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"hass-skill/internal/application"
	"hass-skill/internal/domain"
)

type fakeHA struct {
	entities    []domain.Entity
	calls       []domain.ServiceCall
	listErr     error
	callErr     error
	reply       string
	converseErr error
	utterances  []string
	fetched     []string
	// fresh overrides what Entity returns, as if the state changed after
	// the listing.
	fresh       map[string]domain.Entity
}

func (f *fakeHA) Entities(_ context.Context) ([]domain.Entity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Entity(nil), f.entities...), nil
}

func (f *fakeHA) Entity(_ context.Context, entityID string) (domain.Entity, error) {
	f.fetched = append(f.fetched, entityID)
	if e, ok := f.fresh[entityID]; ok {
		return e, nil
	}
	for _, e := range f.entities {
		if e.ID == entityID {
			return e, nil
		}
	}
	return domain.Entity{}, domain.NotFound(entityID)
}

func (f *fakeHA) CallService(_ context.Context, call domain.ServiceCall) error {
	if f.callErr != nil {
		return f.callErr
	}
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeHA) Converse(_ context.Context, utterance string) (string, error) {
	f.utterances = append(f.utterances, utterance)
	return f.reply, f.converseErr
}

type recordingNotifier struct {
	failures []domain.Failure
}

func (r *recordingNotifier) Notify(_ context.Context, failure domain.Failure) error {
	r.failures = append(r.failures, failure)
	return nil
}

// germanLexicon mirrors the de-de locale for the verbs tests rely on.
type germanLexicon struct{}

func (germanLexicon) Verb(word string) (string, bool) {
	switch strings.ToLower(word) {
	case "ein", "an":
		return application.VerbOn, true
	case "aus":
		return application.VerbOff, true
	case "umschalten":
		return application.VerbToggle, true
	case "heller":
		return application.VerbIncrease, true
	case "dunkler", "runter":
		return application.VerbDecrease, true
	}
	return "", false
}

func entity(id, name, state string, attrs map[string]any) domain.Entity {
	if attrs == nil {
		attrs = map[string]any{}
	}
	attrs["friendly_name"] = name
	return domain.Entity{ID: id, Name: name, State: state, Attributes: attrs}
}

func newDispatcher(ha *fakeHA) *application.Dispatcher {
	return application.NewDispatcher(application.Config{
		Connect:        func() (application.HomeAssistant, error) { return ha, nil },
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		EnableFallback: true,
	})
}

func dialogKeys(resp domain.Response) []string {
	keys := make([]string, 0, len(resp.Dialogs))
	for _, d := range resp.Dialogs {
		keys = append(keys, d.Key)
	}
	return keys
}
