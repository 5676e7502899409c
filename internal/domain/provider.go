package domain

import "context"

// Outcome classifies a single provider call.
type Outcome string

const (
	OutcomeFound        Outcome = "found"
	OutcomeNoCoverage   Outcome = "no_coverage"
	OutcomeUnconfigured Outcome = "unconfigured"
	OutcomeFailed       Outcome = "failed"
)

// Result is the per-provider return shape. Data and Source are only
// meaningful when Outcome is OutcomeFound.
type Result[T any] struct {
	Outcome Outcome
	Data    T
	Source  string
}

// Found reports whether the provider contributed data.
func (r Result[T]) Found() bool {
	return r.Outcome == OutcomeFound
}

// Found wraps extracted data from the named provider.
func Found[T any](source string, data T) Result[T] {
	return Result[T]{Outcome: OutcomeFound, Data: data, Source: source}
}

// NotFound returns an empty result with the given non-found outcome.
func NotFound[T any](outcome Outcome) Result[T] {
	return Result[T]{Outcome: outcome}
}

type (
	PropertyResult = Result[EnrichedProfile]
	ClimateResult  = Result[ClimateProfile]
)

// PropertyProvider looks up property attributes by postal address.
// Implementations never return errors; every failure is folded into the
// result's Outcome and logged by the provider.
type PropertyProvider interface {
	Name() string
	LookupByAddress(ctx context.Context, addr Address) PropertyResult
}

// ClimateProvider looks up weather and climate data by ZIP code.
type ClimateProvider interface {
	Name() string
	LookupByZip(ctx context.Context, zip string) ClimateResult
}

// PropertyMiss is a property result that contributed nothing.
func PropertyMiss(outcome Outcome) PropertyResult {
	return NotFound[EnrichedProfile](outcome)
}

// ClimateMiss is a climate result that contributed nothing.
func ClimateMiss(outcome Outcome) ClimateResult {
	return NotFound[ClimateProfile](outcome)
}
