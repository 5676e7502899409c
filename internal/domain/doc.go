// Package domain models property and climate enrichment data assembled from
// third-party providers.
//
// # Lookup Keys
//
// Input is normalized once, before any provider is consulted:
//
//	street, city: trimmed, internal whitespace collapsed to one space
//	state:        trimmed, uppercased ("ca" -> "CA")
//	zip:          leading digits only, at most five ("94102-1234" -> "94102")
//
// The property cache key is the case-folded "street|city|state|zip" string,
// e.g. "123 test st|san francisco|ca|94102". The climate cache key is the bare
// five-digit ZIP code.
//
// # Provider Results
//
// Every provider returns a [Result] whose [Outcome] is one of:
//
//	found        data extracted; Source names the provider
//	no_coverage  provider answered but has no record (HTTP 4xx, empty match list)
//	unconfigured credential missing; no network call was made
//	failed       timeout, transport error, HTTP 5xx, or undecodable body
//
// Only found results contribute data. The other three are equivalent for the
// caller and differ only in logging and metrics.
//
// # Merging
//
// Profiles are sparse: every attribute is a pointer and nil means the
// provider had no data. Profiles from several providers are combined with
// [MergeProperty] and [MergeClimate], which keep the value from the first
// (highest-priority) provider that supplied a field and fill gaps from later
// providers. Zero values are real values and are never treated as absent.
//
// # Home Schema
//
// [MapToHomeSchema] converts a merged profile into the fields of the home
// record. Free-text property types from different providers are normalized
// into [PropertyType] tags; anything unrecognized maps to [PropertyTypeOther].
package domain
