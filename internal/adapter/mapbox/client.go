package mapbox

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/home-data-enrichment/internal/adapter/providerhttp"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Source is the provenance tag recorded for Mapbox data.
const Source = "mapbox"

// DefaultBaseURL is the Mapbox v5 places endpoint.
const DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// minRelevance filters out fuzzy matches; below it Mapbox has usually
// matched the street or city rather than the address.
const minRelevance = 0.8

// Client implements domain.PropertyProvider using the Mapbox Geocoding API.
// It is the last property tier: it only normalizes the address and supplies
// coordinates.
type Client struct {
	token   string
	baseURL string
	http    *providerhttp.Client
	logger  *slog.Logger
}

// NewClient creates a Mapbox geocoding client. An empty token yields a client
// that reports OutcomeUnconfigured.
func NewClient(token, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    providerhttp.New(Source, timeout, logger),
		logger:  logger,
	}
}

func (c *Client) Name() string { return Source }

// LookupByAddress forward-geocodes addr at address granularity.
func (c *Client) LookupByAddress(ctx context.Context, addr domain.Address) domain.PropertyResult {
	if c.token == "" {
		return domain.PropertyMiss(domain.OutcomeUnconfigured)
	}
	query := addr.OneLine()
	if addr.Street == "" || query == "" {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"address"},
		"country":      {"us"},
	}

	var resp response
	if outcome := c.http.GetJSON(ctx, u+"?"+params.Encode(), nil, &resp); outcome != domain.OutcomeFound {
		return domain.PropertyMiss(outcome)
	}
	if len(resp.Features) == 0 {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}

	f := resp.Features[0]
	if f.Relevance < minRelevance {
		c.logger.Debug("mapbox match below relevance threshold", "relevance", f.Relevance)
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}

	profile := domain.EnrichedProfile{
		NormalizedAddress: providerhttp.Text(f.PlaceName),
		County:            f.county(),
	}
	// Mapbox uses lon,lat order.
	if len(f.Center) == 2 {
		profile.Longitude = domain.Ptr(f.Center[0])
		profile.Latitude = domain.Ptr(f.Center[1])
	}
	if !profile.HasData() {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}
	return domain.Found(Source, profile)
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64     `json:"center"` // [lon, lat]
	PlaceName string        `json:"place_name"`
	Text      string        `json:"text"`
	Relevance float64       `json:"relevance"`
	Context   []contextItem `json:"context"`
}

type contextItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// county returns the "district" context entry, which Mapbox uses for US
// counties.
func (f feature) county() *string {
	for _, item := range f.Context {
		if strings.HasPrefix(item.ID, "district.") {
			return providerhttp.Text(item.Text)
		}
	}
	return nil
}
