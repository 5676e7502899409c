package domain

// fill copies src into dst only when dst is still unset.
func fill[T any](dst **T, src *T) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

// MergeProperty folds a lower-priority provider's data into acc using
// first-writer-wins per field and appends source to acc.Sources, even when
// the provider contributed no new field.
func MergeProperty(acc EnrichedProfile, data EnrichedProfile, source string) EnrichedProfile {
	acc.Found = true
	acc.Sources = appendSource(acc.Sources, source)

	fill(&acc.NormalizedAddress, data.NormalizedAddress)
	fill(&acc.Latitude, data.Latitude)
	fill(&acc.Longitude, data.Longitude)
	fill(&acc.County, data.County)
	fill(&acc.CensusTract, data.CensusTract)

	fill(&acc.YearBuilt, data.YearBuilt)
	fill(&acc.SquareFootage, data.SquareFootage)
	fill(&acc.LotSizeSqFt, data.LotSizeSqFt)
	fill(&acc.LotSizeAcres, data.LotSizeAcres)
	fill(&acc.Bedrooms, data.Bedrooms)
	fill(&acc.Bathrooms, data.Bathrooms)
	fill(&acc.Stories, data.Stories)
	fill(&acc.PropertyType, data.PropertyType)

	fill(&acc.ConstructionType, data.ConstructionType)
	fill(&acc.RoofType, data.RoofType)
	fill(&acc.FoundationType, data.FoundationType)
	fill(&acc.HeatingType, data.HeatingType)
	fill(&acc.CoolingType, data.CoolingType)

	fill(&acc.MarketValue, data.MarketValue)
	fill(&acc.AssessedValue, data.AssessedValue)
	fill(&acc.TaxAmount, data.TaxAmount)
	fill(&acc.TaxYear, data.TaxYear)
	fill(&acc.SchoolDistrict, data.SchoolDistrict)

	fill(&acc.WalkScore, data.WalkScore)
	fill(&acc.TransitScore, data.TransitScore)
	fill(&acc.BikeScore, data.BikeScore)
	fill(&acc.ImageURL, data.ImageURL)
	fill(&acc.ListingURL, data.ListingURL)

	return acc
}

// MergeClimate is the climate analogue of MergeProperty.
func MergeClimate(acc ClimateProfile, data ClimateProfile, source string) ClimateProfile {
	acc.Found = true
	acc.Sources = appendSource(acc.Sources, source)

	fill(&acc.City, data.City)
	fill(&acc.Latitude, data.Latitude)
	fill(&acc.Longitude, data.Longitude)

	fill(&acc.CurrentTempF, data.CurrentTempF)
	fill(&acc.FeelsLikeF, data.FeelsLikeF)
	fill(&acc.HumidityPct, data.HumidityPct)
	fill(&acc.WindSpeedMph, data.WindSpeedMph)
	fill(&acc.Conditions, data.Conditions)
	fill(&acc.ObservationUnix, data.ObservationUnix)

	fill(&acc.ClimateZone, data.ClimateZone)
	fill(&acc.ClimateRegion, data.ClimateRegion)
	fill(&acc.AvgAnnualTempF, data.AvgAnnualTempF)
	fill(&acc.HeatingDegreeDays, data.HeatingDegreeDays)
	fill(&acc.CoolingDegreeDays, data.CoolingDegreeDays)
	fill(&acc.AnnualPrecipIn, data.AnnualPrecipIn)
	fill(&acc.FrostDepthIn, data.FrostDepthIn)

	return acc
}

func appendSource(sources []string, source string) []string {
	if sources == nil {
		sources = []string{}
	}
	if source == "" {
		return sources
	}
	return append(sources, source)
}
