package domain

import "reflect"

// EnrichedProfile is the best-effort property record assembled from one or
// more providers. Every attribute is optional; nil means no provider had it.
type EnrichedProfile struct {
	Found   bool     `json:"found"`
	Sources []string `json:"sources"`

	NormalizedAddress *string  `json:"normalized_address,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	County            *string  `json:"county,omitempty"`
	CensusTract       *string  `json:"census_tract,omitempty"`

	YearBuilt     *int     `json:"year_built,omitempty"`
	SquareFootage *int     `json:"square_footage,omitempty"`
	LotSizeSqFt   *int     `json:"lot_size_sqft,omitempty"`
	LotSizeAcres  *float64 `json:"lot_size_acres,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	Stories       *float64 `json:"stories,omitempty"`
	PropertyType  *string  `json:"property_type,omitempty"`

	ConstructionType *string `json:"construction_type,omitempty"`
	RoofType         *string `json:"roof_type,omitempty"`
	FoundationType   *string `json:"foundation_type,omitempty"`
	HeatingType      *string `json:"heating_type,omitempty"`
	CoolingType      *string `json:"cooling_type,omitempty"`

	MarketValue    *int     `json:"market_value,omitempty"`
	AssessedValue  *int     `json:"assessed_value,omitempty"`
	TaxAmount      *float64 `json:"tax_amount,omitempty"`
	TaxYear        *int     `json:"tax_year,omitempty"`
	SchoolDistrict *string  `json:"school_district,omitempty"`

	WalkScore    *int    `json:"walk_score,omitempty"`
	TransitScore *int    `json:"transit_score,omitempty"`
	BikeScore    *int    `json:"bike_score,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	ListingURL   *string `json:"listing_url,omitempty"`
}

// NotFoundProfile is the terminal result when no provider had data.
func NotFoundProfile() EnrichedProfile {
	return EnrichedProfile{Found: false, Sources: []string{}}
}

// ClimateProfile is the best-effort weather and climate summary for a ZIP code.
type ClimateProfile struct {
	Found   bool     `json:"found"`
	Sources []string `json:"sources"`
	Zip     string   `json:"zip"`

	City      *string  `json:"city,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Current conditions.
	CurrentTempF    *float64 `json:"current_temp_f,omitempty"`
	FeelsLikeF      *float64 `json:"feels_like_f,omitempty"`
	HumidityPct     *int     `json:"humidity_pct,omitempty"`
	WindSpeedMph    *float64 `json:"wind_speed_mph,omitempty"`
	Conditions      *string  `json:"conditions,omitempty"`
	ObservationUnix *int64   `json:"observation_unix,omitempty"`

	// Long-term averages.
	ClimateZone       *string  `json:"climate_zone,omitempty"`
	ClimateRegion     *string  `json:"climate_region,omitempty"`
	AvgAnnualTempF    *float64 `json:"avg_annual_temp_f,omitempty"`
	HeatingDegreeDays *int     `json:"heating_degree_days,omitempty"`
	CoolingDegreeDays *int     `json:"cooling_degree_days,omitempty"`
	AnnualPrecipIn    *float64 `json:"annual_precip_in,omitempty"`
	FrostDepthIn      *int     `json:"frost_depth_in,omitempty"`
}

// NotFoundClimate is the terminal climate result when no provider had data.
func NotFoundClimate(zip string) ClimateProfile {
	return ClimateProfile{Found: false, Sources: []string{}, Zip: zip}
}

// Ptr returns a pointer to v. Adapters use it to populate sparse profiles.
func Ptr[T any](v T) *T {
	return &v
}

// HasData reports whether any attribute is set.
func (p EnrichedProfile) HasData() bool {
	return anyPointerSet(reflect.ValueOf(p))
}

// HasData reports whether any attribute besides the ZIP is set.
func (c ClimateProfile) HasData() bool {
	return anyPointerSet(reflect.ValueOf(c))
}

func anyPointerSet(v reflect.Value) bool {
	for i := range v.NumField() {
		f := v.Field(i)
		if f.Kind() == reflect.Pointer && !f.IsNil() {
			return true
		}
	}
	return false
}
