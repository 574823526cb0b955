package application

import (
	"context"
	"slices"

	"hass-skill/internal/domain"
	"hass-skill/internal/fuzzy"
)

// Resolver finds entities by spoken name. The entity list is fetched on every
// call.
type Resolver struct {
	ha EntityLister
}

func NewResolver(ha EntityLister) *Resolver {
	return &Resolver{ha: ha}
}

// Resolve returns the entity of one of domains whose name best matches query.
// Ties go to the entity listed first.
func (r *Resolver) Resolve(ctx context.Context, query string, domains []string) (domain.Entity, error) {
	candidates, err := r.candidates(ctx, domains)
	if err != nil {
		return domain.Entity{}, err
	}

	match, ok := fuzzy.ExtractOne(query, names(candidates), fuzzy.Threshold)
	if !ok {
		return domain.Entity{}, domain.NotFound(query)
	}
	return candidates[match.Index], nil
}

// FindAll returns every entity of domains matching query, best first. An
// empty query matches every entity; nil domains allow every domain.
func (r *Resolver) FindAll(ctx context.Context, query string, domains []string) ([]domain.Entity, error) {
	candidates, err := r.candidates(ctx, domains)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return candidates, nil
	}

	matches := fuzzy.Extract(query, names(candidates), fuzzy.Threshold)
	found := make([]domain.Entity, 0, len(matches))
	for _, m := range matches {
		found = append(found, candidates[m.Index])
	}
	return found, nil
}

func (r *Resolver) candidates(ctx context.Context, domains []string) ([]domain.Entity, error) {
	entities, err := r.ha.Entities(ctx)
	if err != nil {
		return nil, err
	}
	if domains == nil {
		return entities, nil
	}

	var filtered []domain.Entity
	for _, e := range entities {
		if slices.Contains(domains, e.Domain()) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func names(entities []domain.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name
	}
	return out
}
