package application

import (
	"context"
	"log/slog"

	"hass-skill/internal/domain"
)

type handlerFunc func(ctx context.Context, t *turn, intent domain.Intent) error

// turn carries what one handler invocation works with.
type turn struct {
	ha       HomeAssistant
	resolver *Resolver
	resp     *domain.Response
}

type Config struct {
	Connect        Connector
	Lexicon        Lexicon
	Notifier       Notifier
	Logger         *slog.Logger
	EnableFallback bool
}

// Dispatcher turns intents into Home Assistant service calls and spoken
// responses. It holds no per-request state.
type Dispatcher struct {
	connect        Connector
	lexicon        Lexicon
	notifier       Notifier
	logger         *slog.Logger
	enableFallback bool
	handlers       map[domain.IntentName]handlerFunc
}

func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{
		connect:        cfg.Connect,
		lexicon:        cfg.Lexicon,
		notifier:       cfg.Notifier,
		logger:         cfg.Logger,
		enableFallback: cfg.EnableFallback,
	}
	if d.lexicon == nil {
		d.lexicon = canonicalLexicon{}
	}
	if d.notifier == nil {
		d.notifier = &NoopNotifier{}
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}

	d.handlers = map[domain.IntentName]handlerFunc{
		domain.IntentSetBrightness:    d.handleSetBrightness,
		domain.IntentAdjustBrightness: d.handleAdjustBrightness,
		domain.IntentSwitch:           d.handleSwitch,
		domain.IntentTurnOn:           d.handleTurnOn,
		domain.IntentTurnOff:          d.handleTurnOff,
		domain.IntentAutomation:       d.handleAutomation,
		domain.IntentSensor:           d.handleSensor,
		domain.IntentTracker:          d.handleTracker,
		domain.IntentQueryAttribute:   d.handleQueryAttribute,
		domain.IntentClimateCool:      d.climateModeHandler("cool"),
		domain.IntentClimateHeat:      d.climateModeHandler("heat"),
		domain.IntentClimateOff:       d.climateModeHandler("off"),
		domain.IntentClimateSetTemp:   d.handleClimateSetTemperature,
	}

	return d
}

// Intents lists the intent names the dispatcher can handle.
func (d *Dispatcher) Intents() []domain.IntentName {
	names := make([]domain.IntentName, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}

func (d *Dispatcher) HandleIntent(ctx context.Context, intent domain.Intent) domain.Response {
	var resp domain.Response

	handler, ok := d.handlers[intent.Name]
	if !ok {
		d.logger.Warn("unknown intent", "intent", intent.Name)
		resp.Speak(DialogSorry, nil)
		return resp
	}

	resp.Handled = true

	ha, err := d.client()
	if err != nil {
		d.fail(ctx, &resp, string(intent.Name), err)
		return resp
	}

	d.logger.Debug("handling intent", "intent", intent.Name, "slots", intent.Slots)

	t := &turn{ha: ha, resolver: NewResolver(ha), resp: &resp}
	if err := handler(ctx, t, intent); err != nil {
		d.fail(ctx, &resp, string(intent.Name), err)
	}

	return resp
}

func (d *Dispatcher) client() (HomeAssistant, error) {
	if d.connect == nil {
		return nil, domain.ErrNotConfigured
	}
	return d.connect()
}

func (t *turn) resolve(ctx context.Context, query string, domains ...string) (domain.Entity, error) {
	return t.resolver.Resolve(ctx, query, domains)
}

// resolveFresh resolves query and then re-reads that one entity, so handlers
// that act on its state or attributes see the current values.
func (t *turn) resolveFresh(ctx context.Context, query string, domains ...string) (domain.Entity, error) {
	entity, err := t.resolve(ctx, query, domains...)
	if err != nil {
		return domain.Entity{}, err
	}
	return t.ha.Entity(ctx, entity.ID)
}

// fail turns err into spoken dialog and, for server problems, a notification.
func (d *Dispatcher) fail(ctx context.Context, resp *domain.Response, source string, err error) {
	kind := domain.KindOf(err)

	switch kind {
	case domain.ErrEntityNotFound, domain.ErrMissingAttribute:
		d.logger.Debug("nothing matched", "source", source, "kind", kind, "error", err)
	default:
		d.logger.Error("home assistant request failed", "source", source, "kind", kind, "error", err)
		d.notify(ctx, domain.NewFailure(source, err))
	}

	if dialog, ok := dialogFor(err); ok {
		resp.Speak(dialog.Key, dialog.Data)
	}
}

func (d *Dispatcher) notify(ctx context.Context, failure domain.Failure) {
	if err := d.notifier.Notify(ctx, failure); err != nil {
		d.logger.Error("notifying error", "error", err)
	}
}
