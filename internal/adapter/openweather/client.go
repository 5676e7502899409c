// Package openweather adapts the OpenWeatherMap current-weather endpoint into
// a [domain.ClimateProvider].
package openweather

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/home-data-enrichment/internal/adapter/providerhttp"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Source is the provenance tag recorded for OpenWeatherMap data.
const Source = "openweather"

const weatherPath = "/data/2.5/weather"

// Client implements domain.ClimateProvider.
type Client struct {
	apiKey  string
	baseURL string
	http    *providerhttp.Client
}

// NewClient creates an OpenWeatherMap client. An empty apiKey yields a client
// that reports OutcomeUnconfigured without network I/O.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    providerhttp.New(Source, timeout, logger),
	}
}

func (c *Client) Name() string { return Source }

// LookupByZip fetches current conditions for a US ZIP code in imperial units.
func (c *Client) LookupByZip(ctx context.Context, zip string) domain.ClimateResult {
	if c.apiKey == "" {
		return domain.ClimateMiss(domain.OutcomeUnconfigured)
	}
	if len(zip) != 5 {
		return domain.ClimateMiss(domain.OutcomeNoCoverage)
	}

	params := url.Values{
		"zip":   {zip + ",us"},
		"units": {"imperial"},
		"appid": {c.apiKey},
	}

	var resp response
	if outcome := c.http.GetJSON(ctx, c.baseURL+weatherPath+"?"+params.Encode(), nil, &resp); outcome != domain.OutcomeFound {
		return domain.ClimateMiss(outcome)
	}

	profile := resp.toProfile()
	if !profile.HasData() {
		return domain.ClimateMiss(domain.OutcomeNoCoverage)
	}
	return domain.Found(Source, profile)
}

// OpenWeatherMap response types.

type response struct {
	Coord struct {
		Lon providerhttp.Number `json:"lon"`
		Lat providerhttp.Number `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      providerhttp.Number `json:"temp"`
		FeelsLike providerhttp.Number `json:"feels_like"`
		Humidity  providerhttp.Number `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed providerhttp.Number `json:"speed"`
	} `json:"wind"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
}

func (r response) toProfile() domain.ClimateProfile {
	out := domain.ClimateProfile{
		City:         providerhttp.Text(r.Name),
		CurrentTempF: r.Main.Temp.Float(),
		FeelsLikeF:   r.Main.FeelsLike.Float(),
		WindSpeedMph: r.Wind.Speed.Float(),
	}
	if lat, lon := r.Coord.Lat.Float(), r.Coord.Lon.Float(); lat != nil && lon != nil {
		out.Latitude, out.Longitude = lat, lon
	}
	if h := r.Main.Humidity; h.Valid && h.Value >= 0 && h.Value <= 100 {
		out.HumidityPct = domain.Ptr(int(h.Value))
	}
	if len(r.Weather) > 0 {
		out.Conditions = providerhttp.Text(r.Weather[0].Description)
		if out.Conditions == nil {
			out.Conditions = providerhttp.Text(r.Weather[0].Main)
		}
	}
	if r.Dt > 0 {
		out.ObservationUnix = domain.Ptr(r.Dt)
	}
	return out
}
