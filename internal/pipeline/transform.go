package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// PropertyEnricher is the orchestrator call the pipeline needs.
type PropertyEnricher interface {
	EnrichPropertyData(ctx context.Context, address, city, state, zip string) (domain.EnrichedProfile, error)
}

// LookupTransformer implements Transformer by running each lookup request
// through the enrichment orchestrator, so bulk and interactive lookups share
// one cache.
type LookupTransformer struct {
	enricher PropertyEnricher
	logger   *slog.Logger
}

// NewTransformer creates a LookupTransformer.
func NewTransformer(enricher PropertyEnricher, logger *slog.Logger) *LookupTransformer {
	return &LookupTransformer{enricher: enricher, logger: logger}
}

// Transform parses, validates, and enriches one request. A request no
// provider covers still yields a message, with found=false.
func (t *LookupTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.EnrichedPropertyMessage, error) {
	req, err := domain.ParseLookupMessage(raw)
	if err != nil {
		return domain.EnrichedPropertyMessage{}, err
	}

	profile, err := t.enricher.EnrichPropertyData(ctx, req.Address, req.City, req.State, req.Zip)
	if err != nil {
		return domain.EnrichedPropertyMessage{}, err
	}
	t.logger.Debug("enriched lookup request",
		"request_id", req.RequestID,
		"found", profile.Found,
		"sources", profile.Sources,
	)
	return domain.NewEnrichedPropertyMessage(req, profile), nil
}
