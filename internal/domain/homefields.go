package domain

import (
	"math"
	"strings"
	"unicode"
)

// PropertyType is the canonical home property-type tag.
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single_family"
	PropertyTypeTownhouse    PropertyType = "townhouse"
	PropertyTypeCondo        PropertyType = "condo"
	PropertyTypeApartment    PropertyType = "apartment"
	PropertyTypeMobileHome   PropertyType = "mobile_home"
	PropertyTypeMultiFamily  PropertyType = "multi_family"
	PropertyTypeOther        PropertyType = "other"
)

// HomeFields is the subset of the home record that enrichment can pre-fill.
// Nil fields were not supplied by any provider and must be left for the user.
type HomeFields struct {
	Address      *string       `json:"address,omitempty"`
	PropertyType *PropertyType `json:"property_type,omitempty"`

	YearBuilt     *int     `json:"year_built,omitempty"`
	SquareFootage *int     `json:"square_footage,omitempty"`
	LotSize       *int     `json:"lot_size,omitempty"` // square feet
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	Stories       *float64 `json:"stories,omitempty"`

	ConstructionType *string `json:"construction_type,omitempty"`
	RoofType         *string `json:"roof_type,omitempty"`
	FoundationType   *string `json:"foundation_type,omitempty"`
	HeatingType      *string `json:"heating_type,omitempty"`
	CoolingType      *string `json:"cooling_type,omitempty"`

	EstimatedValue *int     `json:"estimated_value,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// sqFtPerAcre converts acreage to square feet.
const sqFtPerAcre = 43560

// MapToHomeSchema converts an enriched profile into home record fields.
// It performs no I/O and accepts any profile, including the empty one. The
// result shares no memory with p, so callers may edit it freely.
func MapToHomeSchema(p EnrichedProfile) HomeFields {
	h := HomeFields{
		Address:          clonePtr(p.NormalizedAddress),
		YearBuilt:        clonePtr(p.YearBuilt),
		SquareFootage:    clonePtr(p.SquareFootage),
		LotSize:          clonePtr(p.LotSizeSqFt),
		Bedrooms:         clonePtr(p.Bedrooms),
		Bathrooms:        clonePtr(p.Bathrooms),
		Stories:          clonePtr(p.Stories),
		ConstructionType: clonePtr(p.ConstructionType),
		RoofType:         clonePtr(p.RoofType),
		FoundationType:   clonePtr(p.FoundationType),
		HeatingType:      clonePtr(p.HeatingType),
		CoolingType:      clonePtr(p.CoolingType),
		EstimatedValue:   clonePtr(p.MarketValue),
		Latitude:         clonePtr(p.Latitude),
		Longitude:        clonePtr(p.Longitude),
	}
	if h.LotSize == nil && p.LotSizeAcres != nil {
		sqft := int(math.Round(*p.LotSizeAcres * sqFtPerAcre))
		h.LotSize = &sqft
	}
	if p.PropertyType != nil {
		t := NormalizePropertyType(*p.PropertyType)
		h.PropertyType = &t
	}
	return h
}

func clonePtr[T any](src *T) *T {
	var dst *T
	fill(&dst, src)
	return dst
}

// exactPropertyTypes maps compacted provider strings (lowercase, letters and
// digits only) to tags. Checked before propertyTypeRules.
var exactPropertyTypes = map[string]PropertyType{
	"sfr":                            PropertyTypeSingleFamily,
	"sfd":                            PropertyTypeSingleFamily,
	"residential":                    PropertyTypeSingleFamily,
	"singlefamilyresidencetownhouse": PropertyTypeSingleFamily,
	"detached":                       PropertyTypeSingleFamily,
	"house":                          PropertyTypeSingleFamily,
	"rowhouse":                       PropertyTypeTownhouse,
	"coop":                           PropertyTypeCondo,
	"cooperative":                    PropertyTypeCondo,
	"apt":                            PropertyTypeApartment,
	"apts":                           PropertyTypeApartment,
	"duplex":                         PropertyTypeMultiFamily,
	"triplex":                        PropertyTypeMultiFamily,
	"quadruplex":                     PropertyTypeMultiFamily,
	"fourplex":                       PropertyTypeMultiFamily,
}

// propertyTypeRules are checked in order. A needle must start at a word
// boundary but may run across words, so "multifamily" matches "Multi-Family"
// while "plex" never matches inside "Complex".
var propertyTypeRules = []struct {
	needles []string
	tag     PropertyType
}{
	{[]string{"mobile", "manufactured", "trailer"}, PropertyTypeMobileHome},
	{[]string{"condo"}, PropertyTypeCondo},
	{[]string{"townhouse", "townhome"}, PropertyTypeTownhouse},
	{[]string{"apartment"}, PropertyTypeApartment},
	{[]string{"multifamily", "duplex", "triplex", "quadruplex", "fourplex"}, PropertyTypeMultiFamily},
	{[]string{"singlefamily"}, PropertyTypeSingleFamily},
}

// NormalizePropertyType maps a provider's free-text property type to a tag.
// Matching ignores case, whitespace, and punctuation, so "Town House",
// "townhouse" and "TOWN-HOUSE" are equivalent.
func NormalizePropertyType(raw string) PropertyType {
	words := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return PropertyTypeOther
	}
	if t, ok := exactPropertyTypes[strings.Join(words, "")]; ok {
		return t
	}
	for _, rule := range propertyTypeRules {
		for _, needle := range rule.needles {
			if startsAtWord(words, needle) {
				return rule.tag
			}
		}
	}
	return PropertyTypeOther
}

func startsAtWord(words []string, needle string) bool {
	for i := range words {
		if strings.HasPrefix(strings.Join(words[i:], ""), needle) {
			return true
		}
	}
	return false
}
