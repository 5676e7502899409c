package enrich

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/couchcryptid/home-data-enrichment/internal/domain"
)

// Policy decides when the property chain may stop early. After a provider
// contributes data, the chain stops if that provider is authoritative and its
// own result populated at least MinCoreFields of CoreFields. Field names are
// the EnrichedProfile JSON names (e.g. "year_built").
type Policy struct {
	Authoritative []string
	CoreFields    []string
	MinCoreFields int
}

// DefaultPolicy stops after ATTOM when it reports both year built and
// square footage.
func DefaultPolicy() Policy {
	return Policy{
		Authoritative: []string{"attom"},
		CoreFields:    []string{"year_built", "square_footage"},
		MinCoreFields: 2,
	}
}

// NeverStop is a policy that always consults every provider.
func NeverStop() Policy {
	return Policy{}
}

// Validate rejects unknown field names and impossible thresholds.
func (p Policy) Validate() error {
	for _, f := range p.CoreFields {
		if _, ok := profileFields[f]; !ok {
			return fmt.Errorf("unknown property field %q", f)
		}
	}
	if p.MinCoreFields < 0 || p.MinCoreFields > len(p.CoreFields) {
		return fmt.Errorf("min core fields %d out of range [0, %d]", p.MinCoreFields, len(p.CoreFields))
	}
	return nil
}

// Sufficient reports whether data from source ends the chain.
func (p Policy) Sufficient(source string, data domain.EnrichedProfile) bool {
	if !p.isAuthoritative(source) {
		return false
	}
	return p.coreFieldsPresent(data) >= p.MinCoreFields
}

func (p Policy) isAuthoritative(source string) bool {
	for _, a := range p.Authoritative {
		if strings.EqualFold(a, source) {
			return true
		}
	}
	return false
}

func (p Policy) coreFieldsPresent(data domain.EnrichedProfile) int {
	v := reflect.ValueOf(data)
	n := 0
	for _, name := range p.CoreFields {
		idx, ok := profileFields[name]
		if ok && !v.Field(idx).IsNil() {
			n++
		}
	}
	return n
}

// profileFields maps JSON names of the optional EnrichedProfile attributes to
// struct field indexes.
var profileFields = func() map[string]int {
	t := reflect.TypeOf(domain.EnrichedProfile{})
	m := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Type.Kind() != reflect.Pointer {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		m[name] = i
	}
	return m
}()
