package domain

import "strings"

// Address is a US postal address after normalization.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// NormalizeAddress trims and canonicalizes raw address parts.
func NormalizeAddress(street, city, state, zip string) Address {
	return Address{
		Street: collapseSpaces(street),
		City:   collapseSpaces(city),
		State:  strings.ToUpper(strings.TrimSpace(state)),
		Zip:    NormalizeZip(zip),
	}
}

// NormalizeZip keeps the leading run of digits of a ZIP code, capped at five.
// "94102-1234" and "94102 " both become "94102"; input that does not start
// with a digit yields "".
func NormalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	end := 0
	for end < len(zip) && end < 5 && zip[end] >= '0' && zip[end] <= '9' {
		end++
	}
	return zip[:end]
}

// Empty reports whether there is nothing to look up.
func (a Address) Empty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Zip == ""
}

// OneLine formats the address as "street, city, ST zip", skipping empty parts.
func (a Address) OneLine() string {
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if tail := strings.TrimSpace(a.State + " " + a.Zip); tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// Locality formats the "city, ST zip" part of the address.
func (a Address) Locality() string {
	return Address{City: a.City, State: a.State, Zip: a.Zip}.OneLine()
}

// PropertyKey is the property cache key: "street|city|state|zip", case-folded.
func (a Address) PropertyKey() string {
	return strings.ToLower(strings.Join([]string{
		collapseSpaces(a.Street),
		collapseSpaces(a.City),
		strings.TrimSpace(a.State),
		a.Zip,
	}, "|"))
}

// ZipKey is the climate cache key for a ZIP code.
func ZipKey(zip string) string {
	return NormalizeZip(zip)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
