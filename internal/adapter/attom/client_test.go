package attom

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

const testAPIKey = "attom-test-key"

const expandedProfileJSON = `{
  "status": {"code": 0, "msg": "SuccessWithResult", "total": 1},
  "property": [{
    "address": {"oneLine": "123 TEST ST, SAN FRANCISCO, CA 94102"},
    "location": {"latitude": "37.779300", "longitude": "-122.419300"},
    "area": {"countrysecsubd": "San Francisco County", "censusTractIdent": "06075012400"},
    "lot": {"lotSize1": 0.0574, "lotSize2": 2500},
    "summary": {"propclass": "Single Family Residence / Townhouse", "proptype": "SFR", "yearbuilt": 1925},
    "building": {
      "size": {"livingsize": 1850, "universalsize": 1900},
      "rooms": {"bathstotal": 2.5, "beds": 3},
      "construction": {"constructiontype": "", "frameType": "WOOD", "foundationtype": "CONCRETE", "roofcover": "COMPOSITION SHINGLE"},
      "summary": {"levels": 2}
    },
    "utilities": {"heatingtype": "FORCED AIR", "coolingtype": ""},
    "assessment": {
      "assessed": {"assdttlvalue": 612000},
      "market": {"mktttlvalue": 1450000},
      "tax": {"taxamt": 7512.44, "taxyear": 2025}
    }
  }]
}`

func testClient(baseURL string) *Client {
	return NewClient(testAPIKey, baseURL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testAddress() domain.Address {
	return domain.NormalizeAddress("123 Test St", "San Francisco", "ca", "94102")
}

func TestClient_LookupByAddress_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, expandedProfilePath, r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "123 Test St", r.URL.Query().Get("address1"))
		assert.Equal(t, "San Francisco, CA 94102", r.URL.Query().Get("address2"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(expandedProfileJSON))
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	require.True(t, result.Found())
	assert.Equal(t, Source, result.Source)

	p := result.Data
	assert.Equal(t, "123 TEST ST, SAN FRANCISCO, CA 94102", *p.NormalizedAddress)
	assert.InDelta(t, 37.7793, *p.Latitude, 1e-6)
	assert.InDelta(t, -122.4193, *p.Longitude, 1e-6)
	assert.Equal(t, "San Francisco County", *p.County)
	assert.Equal(t, "06075012400", *p.CensusTract)
	assert.Equal(t, 1925, *p.YearBuilt)
	assert.Equal(t, 1850, *p.SquareFootage, "living size wins over universal size")
	assert.Equal(t, 2500, *p.LotSizeSqFt)
	assert.InDelta(t, 0.0574, *p.LotSizeAcres, 1e-9)
	assert.Equal(t, 3, *p.Bedrooms)
	assert.InDelta(t, 2.5, *p.Bathrooms, 1e-9)
	assert.InDelta(t, 2.0, *p.Stories, 1e-9)
	assert.Equal(t, "Single Family Residence / Townhouse", *p.PropertyType)
	assert.Equal(t, "WOOD", *p.ConstructionType, "falls back to frame type")
	assert.Equal(t, "CONCRETE", *p.FoundationType)
	assert.Equal(t, "COMPOSITION SHINGLE", *p.RoofType)
	assert.Equal(t, "FORCED AIR", *p.HeatingType)
	assert.Nil(t, p.CoolingType, "blank strings are absent")
	assert.Equal(t, 1450000, *p.MarketValue)
	assert.Equal(t, 612000, *p.AssessedValue)
	assert.InDelta(t, 7512.44, *p.TaxAmount, 1e-9)
	assert.Equal(t, 2025, *p.TaxYear)
	assert.Nil(t, p.SchoolDistrict)
	assert.Nil(t, p.WalkScore)
}

func TestClient_LookupByAddress_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":{"code":1,"msg":"SuccessWithoutResult","total":0}}`))
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	assert.False(t, result.Found())
	assert.Equal(t, domain.OutcomeNoCoverage, result.Outcome)
}

func TestClient_LookupByAddress_EmptyPropertyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"code":0,"total":0},"property":[]}`))
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	assert.Equal(t, domain.OutcomeNoCoverage, result.Outcome)
}

func TestClient_LookupByAddress_RecordWithoutAttributes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"property":[{"summary":{"yearbuilt":0},"location":{"latitude":"0","longitude":"0"}}]}`))
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	assert.Equal(t, domain.OutcomeNoCoverage, result.Outcome)
}

func TestClient_LookupByAddress_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := testClient(srv.URL).LookupByAddress(context.Background(), testAddress())
	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
}

func TestClient_LookupByAddress_Unconfigured(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	result := c.LookupByAddress(context.Background(), testAddress())

	assert.Equal(t, domain.OutcomeUnconfigured, result.Outcome)
	assert.False(t, called, "unconfigured client must not touch the network")
}

func TestClient_LookupByAddress_NoStreet(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	result := c.LookupByAddress(context.Background(), domain.NormalizeAddress("", "Austin", "TX", "78701"))
	assert.Equal(t, domain.OutcomeNoCoverage, result.Outcome)
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, "attom", testClient("").Name())
}
