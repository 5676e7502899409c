// Package climatezone estimates long-term climate characteristics from the
// first three digits of a ZIP code. It is the offline fallback tier of the
// climate chain: no credentials, no network, and no coverage for prefixes
// outside the table.
package climatezone

import (
	"context"
	"sort"
	"strconv"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Source is the provenance tag recorded for estimated climate data.
const Source = "climate_zone_estimate"

// region is one contiguous ZIP3 range with a shared climate. Figures are
// representative annual values for the range's main population centre.
type region struct {
	lo, hi   int // inclusive ZIP3 bounds
	zone     string
	name     string
	avgTempF float64
	hdd, cdd int
	precipIn float64
	frostIn  int
}

// regions must stay sorted by lo with no overlaps.
var regions = []region{
	{5, 5, "4A", "Mid-Atlantic", 55, 4800, 1100, 46, 30},
	{6, 9, "1A", "Tropical", 80, 0, 5000, 60, 0},
	{10, 29, "5A", "New England", 50, 6000, 700, 47, 42},
	{30, 59, "6A", "Northern New England", 44, 7700, 400, 43, 60},
	{60, 69, "5A", "New England", 51, 5800, 750, 48, 42},
	{70, 89, "4A", "Mid-Atlantic", 54, 5000, 1100, 47, 30},
	{100, 119, "4A", "Mid-Atlantic", 55, 4750, 1150, 47, 32},
	{120, 149, "5A", "Great Lakes", 47, 6900, 550, 40, 48},
	{150, 196, "5A", "Mid-Atlantic", 51, 5800, 900, 42, 36},
	{197, 219, "4A", "Mid-Atlantic", 56, 4500, 1300, 44, 24},
	{220, 246, "4A", "Southeast", 57, 4000, 1400, 44, 18},
	{247, 268, "5A", "Appalachia", 53, 5200, 900, 44, 30},
	{270, 289, "3A", "Southeast", 60, 3300, 1700, 46, 10},
	{290, 299, "3A", "Southeast", 64, 2400, 2100, 48, 5},
	{300, 319, "3A", "Southeast", 63, 2700, 1900, 50, 5},
	{320, 329, "2A", "Gulf Coast", 70, 1200, 2900, 52, 0},
	{330, 339, "1A", "Subtropical", 77, 150, 4300, 60, 0},
	{340, 349, "2A", "Gulf Coast", 72, 700, 3400, 52, 0},
	{350, 369, "3A", "Southeast", 63, 2700, 2000, 55, 5},
	{370, 385, "4A", "Southeast", 59, 3700, 1600, 50, 12},
	{386, 397, "3A", "Gulf Coast", 64, 2300, 2200, 56, 5},
	{398, 399, "3A", "Southeast", 65, 2300, 2200, 50, 5},
	{400, 427, "4A", "Ohio Valley", 56, 4500, 1300, 47, 20},
	{430, 459, "5A", "Great Lakes", 51, 5700, 900, 39, 32},
	{460, 479, "5A", "Midwest", 52, 5500, 1000, 42, 32},
	{480, 499, "5A", "Great Lakes", 47, 6800, 600, 33, 42},
	{500, 528, "5A", "Midwest", 49, 6500, 950, 35, 48},
	{530, 549, "6A", "Upper Midwest", 45, 7500, 550, 33, 54},
	{550, 567, "6A", "Upper Midwest", 44, 7900, 600, 30, 60},
	{570, 577, "6A", "Northern Plains", 45, 7700, 700, 21, 60},
	{580, 588, "7", "Northern Plains", 41, 9000, 500, 18, 72},
	{590, 599, "6B", "Mountain West", 44, 7600, 400, 15, 60},
	{600, 629, "5A", "Midwest", 51, 6000, 1000, 38, 36},
	{630, 658, "4A", "Midwest", 55, 4800, 1400, 42, 24},
	{660, 679, "4A", "Great Plains", 56, 4800, 1500, 33, 24},
	{680, 693, "5A", "Great Plains", 51, 6200, 1100, 29, 42},
	{700, 714, "2A", "Gulf Coast", 68, 1500, 2800, 60, 0},
	{716, 729, "3A", "South Central", 61, 3200, 2000, 49, 8},
	{730, 749, "3A", "Southern Plains", 61, 3400, 2000, 36, 10},
	{750, 769, "3A", "Southern Plains", 66, 2300, 2800, 36, 5},
	{770, 789, "2A", "Gulf Coast", 70, 1400, 3100, 40, 0},
	{790, 799, "3B", "Southwest", 63, 3000, 2000, 15, 10},
	{800, 816, "5B", "Mountain West", 50, 6000, 700, 16, 36},
	{820, 831, "6B", "Mountain West", 45, 7500, 300, 13, 60},
	{832, 838, "5B", "Mountain West", 51, 5800, 800, 12, 30},
	{840, 847, "5B", "Mountain West", 52, 5600, 1100, 16, 30},
	{850, 865, "2B", "Desert Southwest", 75, 1100, 4600, 9, 0},
	{870, 884, "4B", "Southwest", 57, 4200, 1200, 10, 18},
	{889, 891, "3B", "Desert Southwest", 70, 2200, 3300, 4, 0},
	{893, 898, "5B", "Great Basin", 52, 5600, 700, 7, 24},
	{900, 935, "3B", "Southern California", 64, 1300, 1200, 15, 0},
	{936, 938, "3B", "Central Valley", 64, 2300, 1900, 11, 0},
	{939, 954, "3C", "Northern California Coast", 58, 2700, 300, 22, 0},
	{955, 955, "4C", "Pacific Northwest", 53, 4600, 50, 40, 6},
	{956, 961, "3B", "Central Valley", 61, 2600, 1500, 20, 0},
	{967, 968, "1A", "Tropical", 77, 0, 4500, 17, 0},
	{970, 979, "4C", "Pacific Northwest", 53, 4500, 300, 36, 12},
	{980, 994, "4C", "Pacific Northwest", 52, 4800, 200, 38, 12},
	{995, 999, "7", "Alaska", 36, 10500, 0, 16, 96},
}

// Estimator implements domain.ClimateProvider from the static region table.
type Estimator struct{}

// NewEstimator returns the table-backed estimator.
func NewEstimator() *Estimator { return &Estimator{} }

func (e *Estimator) Name() string { return Source }

// LookupByZip returns the climate of the ZIP3 region containing zip.
func (e *Estimator) LookupByZip(_ context.Context, zip string) domain.ClimateResult {
	r, ok := lookup(zip)
	if !ok {
		return domain.ClimateMiss(domain.OutcomeNoCoverage)
	}
	return domain.Found(Source, domain.ClimateProfile{
		ClimateZone:       domain.Ptr(r.zone),
		ClimateRegion:     domain.Ptr(r.name),
		AvgAnnualTempF:    domain.Ptr(r.avgTempF),
		HeatingDegreeDays: domain.Ptr(r.hdd),
		CoolingDegreeDays: domain.Ptr(r.cdd),
		AnnualPrecipIn:    domain.Ptr(r.precipIn),
		FrostDepthIn:      domain.Ptr(r.frostIn),
	})
}

func lookup(zip string) (region, bool) {
	if len(zip) < 3 {
		return region{}, false
	}
	prefix, err := strconv.Atoi(zip[:3])
	if err != nil {
		return region{}, false
	}

	i := sort.Search(len(regions), func(i int) bool { return regions[i].hi >= prefix })
	if i == len(regions) || regions[i].lo > prefix {
		return region{}, false
	}
	return regions[i], true
}
