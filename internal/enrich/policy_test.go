package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

func TestPolicy_Sufficient(t *testing.T) {
	rich := domain.EnrichedProfile{YearBuilt: domain.Ptr(1925), SquareFootage: domain.Ptr(1850)}
	thin := domain.EnrichedProfile{YearBuilt: domain.Ptr(1925)}

	tests := []struct {
		name   string
		policy Policy
		source string
		data   domain.EnrichedProfile
		want   bool
	}{
		{"authoritative and rich", DefaultPolicy(), "attom", rich, true},
		{"authoritative but thin", DefaultPolicy(), "attom", thin, false},
		{"not authoritative", DefaultPolicy(), "census_geocoder", rich, false},
		{"case-insensitive source", DefaultPolicy(), "ATTOM", rich, true},
		{"never stop", NeverStop(), "attom", rich, false},
		{"lowered threshold", Policy{Authoritative: []string{"attom"}, CoreFields: []string{"year_built", "square_footage"}, MinCoreFields: 1}, "attom", thin, true},
		{"zero threshold stops on any data", Policy{Authoritative: []string{"attom"}}, "attom", domain.EnrichedProfile{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Sufficient(tt.source, tt.data))
		})
	}
}

func TestPolicy_Validate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
	require.NoError(t, NeverStop().Validate())

	err := Policy{CoreFields: []string{"year_built", "swimming_pool"}, MinCoreFields: 1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swimming_pool")

	err = Policy{CoreFields: []string{"year_built"}, MinCoreFields: 2}.Validate()
	require.Error(t, err)
}

func TestProfileFields_CoversOptionalAttributes(t *testing.T) {
	for _, name := range []string{"year_built", "square_footage", "bedrooms", "bathrooms", "market_value", "latitude"} {
		assert.Contains(t, profileFields, name)
	}
	assert.NotContains(t, profileFields, "found")
	assert.NotContains(t, profileFields, "sources")
}
