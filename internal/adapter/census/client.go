// Package census adapts the US Census Bureau geocoder into a
// [domain.PropertyProvider]. The geocoder needs no credential; it supplies a
// normalized address, coordinates, county, and census tract.
package census

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/home-data-enrichment/internal/adapter/providerhttp"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Source is the provenance tag recorded for census geocoder data.
const Source = "census_geocoder"

const geographiesPath = "/geocoder/geographies/onelineaddress"

// Client implements domain.PropertyProvider using the Census geocoder.
type Client struct {
	enabled bool
	baseURL string
	http    *providerhttp.Client
}

// NewClient creates a Census geocoder client. A disabled client reports
// OutcomeUnconfigured without network I/O.
func NewClient(enabled bool, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		enabled: enabled,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    providerhttp.New(Source, timeout, logger),
	}
}

func (c *Client) Name() string { return Source }

// LookupByAddress geocodes addr and attaches its county and tract.
func (c *Client) LookupByAddress(ctx context.Context, addr domain.Address) domain.PropertyResult {
	if !c.enabled {
		return domain.PropertyMiss(domain.OutcomeUnconfigured)
	}
	if addr.Street == "" {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}

	params := url.Values{
		"address":   {addr.OneLine()},
		"benchmark": {"Public_AR_Current"},
		"vintage":   {"Current_Current"},
		"format":    {"json"},
	}

	var resp response
	if outcome := c.http.GetJSON(ctx, c.baseURL+geographiesPath+"?"+params.Encode(), nil, &resp); outcome != domain.OutcomeFound {
		return domain.PropertyMiss(outcome)
	}
	if len(resp.Result.AddressMatches) == 0 {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}

	profile := resp.Result.AddressMatches[0].toProfile()
	if !profile.HasData() {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}
	return domain.Found(Source, profile)
}

// Census geocoder response types.

type response struct {
	Result struct {
		AddressMatches []addressMatch `json:"addressMatches"`
	} `json:"result"`
}

type addressMatch struct {
	MatchedAddress string `json:"matchedAddress"`
	Coordinates    struct {
		X providerhttp.Number `json:"x"` // longitude
		Y providerhttp.Number `json:"y"` // latitude
	} `json:"coordinates"`
	Geographies struct {
		Counties     []geography `json:"Counties"`
		CensusTracts []geography `json:"Census Tracts"`
	} `json:"geographies"`
}

type geography struct {
	Name  string `json:"NAME"`
	GeoID string `json:"GEOID"`
}

func (m addressMatch) toProfile() domain.EnrichedProfile {
	out := domain.EnrichedProfile{
		NormalizedAddress: providerhttp.Text(m.MatchedAddress),
	}
	if lat, lon := m.Coordinates.Y.Float(), m.Coordinates.X.Float(); lat != nil && lon != nil {
		out.Latitude, out.Longitude = lat, lon
	}
	if len(m.Geographies.Counties) > 0 {
		out.County = providerhttp.Text(m.Geographies.Counties[0].Name)
	}
	if len(m.Geographies.CensusTracts) > 0 {
		out.CensusTract = providerhttp.Text(m.Geographies.CensusTracts[0].GeoID)
	}
	return out
}
