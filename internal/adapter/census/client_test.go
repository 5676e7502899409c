package census

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

const matchJSON = `{
  "result": {
    "input": {"address": {"address": "123 Test St, San Francisco, CA 94102"}},
    "addressMatches": [{
      "matchedAddress": "123 TEST ST, SAN FRANCISCO, CA, 94102",
      "coordinates": {"x": -122.41942, "y": 37.77493},
      "geographies": {
        "Counties": [{"NAME": "San Francisco County", "GEOID": "06075"}],
        "Census Tracts": [{"NAME": "Census Tract 124.01", "GEOID": "06075012401"}]
      }
    }]
  }
}`

func testClient(baseURL string) *Client {
	return NewClient(true, baseURL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testAddress() domain.Address {
	return domain.NormalizeAddress("123 Test St", "San Francisco", "CA", "94102")
}

func TestClient_LookupByAddress_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, geographiesPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "123 Test St, San Francisco, CA 94102", q.Get("address"))
		assert.Equal(t, "Public_AR_Current", q.Get("benchmark"))
		assert.Equal(t, "Current_Current", q.Get("vintage"))
		assert.Equal(t, "json", q.Get("format"))

		_, _ = w.Write([]byte(matchJSON))
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	require.True(t, result.Found())
	assert.Equal(t, Source, result.Source)

	p := result.Data
	assert.Equal(t, "123 TEST ST, SAN FRANCISCO, CA, 94102", *p.NormalizedAddress)
	assert.InDelta(t, 37.77493, *p.Latitude, 1e-9)
	assert.InDelta(t, -122.41942, *p.Longitude, 1e-9)
	assert.Equal(t, "San Francisco County", *p.County)
	assert.Equal(t, "06075012401", *p.CensusTract)
	assert.Nil(t, p.YearBuilt, "the geocoder never reports building attributes")
	assert.Nil(t, p.SquareFootage)
}

func TestClient_LookupByAddress_NoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"addressMatches":[]}}`))
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	assert.Equal(t, domain.OutcomeNoCoverage, result.Outcome)
}

func TestClient_LookupByAddress_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["Address cannot be empty"]}`))
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	assert.Equal(t, domain.OutcomeNoCoverage, result.Outcome)
}

func TestClient_LookupByAddress_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
}

func TestClient_LookupByAddress_Disabled(t *testing.T) {
	c := NewClient(false, "http://127.0.0.1:1", time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	result := c.LookupByAddress(context.Background(), testAddress())
	assert.Equal(t, domain.OutcomeUnconfigured, result.Outcome)
}
