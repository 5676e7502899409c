package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Enricher is the orchestrator surface the lookup routes need.
type Enricher interface {
	EnrichPropertyData(ctx context.Context, address, city, state, zip string) (domain.EnrichedProfile, error)
	EnrichClimate(ctx context.Context, zip string) (domain.ClimateProfile, error)
}

// PropertyLookupResponse is the body of a property lookup: the raw merged
// profile and the home-record fields mapped from it.
type PropertyLookupResponse struct {
	Profile domain.EnrichedProfile `json:"profile"`
	Home    domain.HomeFields      `json:"home"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type lookupHandler struct {
	enricher Enricher
	logger   *slog.Logger
}

func (h *lookupHandler) property(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.PropertyLookupRequest{
		RequestID: requestIDFrom(r.Context()),
		Address:   q.Get("address"),
		City:      q.Get("city"),
		State:     q.Get("state"),
		Zip:       q.Get("zip"),
	}
	if err := req.Validate(); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	profile, err := h.enricher.EnrichPropertyData(r.Context(), req.Address, req.City, req.State, req.Zip)
	if err != nil {
		h.aborted(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, PropertyLookupResponse{
		Profile: profile,
		Home:    domain.MapToHomeSchema(profile),
	})
}

func (h *lookupHandler) climate(w http.ResponseWriter, r *http.Request) {
	req := domain.ClimateLookupRequest{Zip: r.PathValue("zip")}
	if err := req.Validate(); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	profile, err := h.enricher.EnrichClimate(r.Context(), req.Zip)
	if err != nil {
		h.aborted(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, profile)
}

// aborted handles the only error an enrichment returns: the request's own
// context ending. The client has usually gone already.
func (h *lookupHandler) aborted(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Info("lookup abandoned",
		"path", r.URL.Path,
		"request_id", requestIDFrom(r.Context()),
		"error", err,
	)
	status := http.StatusServiceUnavailable
	if errors.Is(err, context.Canceled) {
		status = 499 // client closed request
	}
	sharedobs.WriteJSON(w, status, errorResponse{Error: "lookup abandoned"})
}
