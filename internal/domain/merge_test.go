package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeProperty_FirstWriterWins(t *testing.T) {
	primary := EnrichedProfile{YearBuilt: Ptr(1925), SquareFootage: Ptr(1800)}
	secondary := EnrichedProfile{YearBuilt: Ptr(1930), SquareFootage: Ptr(2000)}

	merged := MergeProperty(EnrichedProfile{}, primary, "attom")
	merged = MergeProperty(merged, secondary, "census_geocoder")

	require.NotNil(t, merged.YearBuilt)
	assert.Equal(t, 1925, *merged.YearBuilt)
	assert.Equal(t, 1800, *merged.SquareFootage)
	assert.Equal(t, []string{"attom", "census_geocoder"}, merged.Sources)
	assert.True(t, merged.Found)
}

func TestMergeProperty_FallbackFill(t *testing.T) {
	primary := EnrichedProfile{YearBuilt: Ptr(1925)}
	secondary := EnrichedProfile{
		Latitude:    Ptr(37.7793),
		Longitude:   Ptr(-122.4193),
		CensusTract: Ptr("06075012401"),
	}

	merged := MergeProperty(EnrichedProfile{}, primary, "attom")
	merged = MergeProperty(merged, secondary, "census_geocoder")

	assert.Equal(t, 1925, *merged.YearBuilt)
	assert.Equal(t, 37.7793, *merged.Latitude)
	assert.Equal(t, -122.4193, *merged.Longitude)
	assert.Equal(t, "06075012401", *merged.CensusTract)
}

func TestMergeProperty_ZeroIsAValue(t *testing.T) {
	primary := EnrichedProfile{Bedrooms: Ptr(0)}
	secondary := EnrichedProfile{Bedrooms: Ptr(3)}

	merged := MergeProperty(EnrichedProfile{}, primary, "attom")
	merged = MergeProperty(merged, secondary, "mapbox")

	require.NotNil(t, merged.Bedrooms)
	assert.Equal(t, 0, *merged.Bedrooms, "a zero from a higher-priority provider is kept")
}

func TestMergeProperty_SourceAppendedWithoutNewFields(t *testing.T) {
	primary := EnrichedProfile{Latitude: Ptr(37.0)}
	duplicate := EnrichedProfile{Latitude: Ptr(38.0)}

	merged := MergeProperty(EnrichedProfile{}, primary, "census_geocoder")
	merged = MergeProperty(merged, duplicate, "mapbox")

	assert.Equal(t, []string{"census_geocoder", "mapbox"}, merged.Sources)
	assert.Equal(t, 37.0, *merged.Latitude)
}

func TestMergeProperty_DoesNotAliasSource(t *testing.T) {
	data := EnrichedProfile{YearBuilt: Ptr(1950)}
	merged := MergeProperty(EnrichedProfile{}, data, "attom")

	*data.YearBuilt = 2000
	assert.Equal(t, 1950, *merged.YearBuilt)
}

func TestMergeClimate(t *testing.T) {
	current := ClimateProfile{CurrentTempF: Ptr(61.5), City: Ptr("San Francisco")}
	estimate := ClimateProfile{
		ClimateZone:       Ptr("3C"),
		HeatingDegreeDays: Ptr(2700),
		City:              Ptr("Bay Area"),
	}

	merged := MergeClimate(ClimateProfile{Zip: "94102"}, current, "openweather")
	merged = MergeClimate(merged, estimate, "climate_zone_estimate")

	want := ClimateProfile{
		Found:             true,
		Sources:           []string{"openweather", "climate_zone_estimate"},
		Zip:               "94102",
		City:              Ptr("San Francisco"),
		CurrentTempF:      Ptr(61.5),
		ClimateZone:       Ptr("3C"),
		HeatingDegreeDays: Ptr(2700),
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merged climate mismatch (-want +got):\n%s", diff)
	}
}

func TestNotFoundProfile(t *testing.T) {
	p := NotFoundProfile()
	assert.False(t, p.Found)
	assert.NotNil(t, p.Sources)
	assert.Empty(t, p.Sources)
}
