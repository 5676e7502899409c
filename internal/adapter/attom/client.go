// Package attom adapts the ATTOM property API expanded profile endpoint into
// a [domain.PropertyProvider]. It is the primary, most detailed property tier.
package attom

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/home-data-enrichment/internal/adapter/providerhttp"
	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Source is the provenance tag recorded for ATTOM data.
const Source = "attom"

const expandedProfilePath = "/propertyapi/v1.0.0/property/expandedprofile"

// Client implements domain.PropertyProvider using the ATTOM API.
type Client struct {
	apiKey  string
	baseURL string
	http    *providerhttp.Client
}

// NewClient creates an ATTOM client. An empty apiKey yields a client that
// reports OutcomeUnconfigured without network I/O.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    providerhttp.New(Source, timeout, logger),
	}
}

func (c *Client) Name() string { return Source }

// LookupByAddress fetches the expanded profile for addr.
func (c *Client) LookupByAddress(ctx context.Context, addr domain.Address) domain.PropertyResult {
	if c.apiKey == "" {
		return domain.PropertyMiss(domain.OutcomeUnconfigured)
	}
	if addr.Street == "" {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}

	params := url.Values{
		"address1": {addr.Street},
		"address2": {addr.Locality()},
	}
	header := http.Header{"apikey": {c.apiKey}}

	var resp response
	if outcome := c.http.GetJSON(ctx, c.baseURL+expandedProfilePath+"?"+params.Encode(), header, &resp); outcome != domain.OutcomeFound {
		return domain.PropertyMiss(outcome)
	}
	if len(resp.Property) == 0 {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}

	profile := resp.Property[0].toProfile()
	if !profile.HasData() {
		return domain.PropertyMiss(domain.OutcomeNoCoverage)
	}
	return domain.Found(Source, profile)
}
