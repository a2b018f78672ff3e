// Package domain models aeronautical notices (NOTAMs) and the pure
// transformations the dashboard applies to them.
//
// # Record Shape
//
// Each NOTAM carries the ICAO-format notice body verbatim in RawText, e.g.
//
//	A1234/25 NOTAMN Q) KZNY/QMRXX/IV/NBO/A/000/999/4038N07346W005
//	A) KJFK B) 2507311000 C) 2508151800 E) RWY 04L/22R CLSD FOR MAINTENANCE
//
// The structured fields (ICAO location, validity window, category) are
// pre-parsed by the catalog. The A/B/C/E items of the body are never
// re-parsed here; only route identifiers are lexically extracted from it.
//
// Validity timestamps are UTC. EffectiveFrom is never after EffectiveUntil.
//
// # Classification
//
// Category and RiskLevel are closed enumerations. Priority uses the same
// low/medium/high scale as RiskLevel but is independent of it: the sample
// data sets them separately and no derivation rule exists. Only RiskLevel
// participates in filtering and recommendations.
//
// # Route Identifiers
//
// Three lexical patterns are applied to RawText (see [ExtractRoutes]):
//
//	[A-Z]\d{1,3}          airways such as J75 or Q818
//	[A-Z]{2,3}\d{1,3}     routes such as UL9 or T711
//	RWY dd[LRC]/dd[LRC]   runway designators, case-insensitive
//
// Note the first two patterns are deliberately loose and also match
// fragments of the notice body such as item identifiers. At most
// [MaxRoutesPerRecord] identifiers are kept per record.
//
// # Recommendations
//
// The summary view attaches advisory text keyed by (RiskLevel, Category).
// Pairs missing from the table get [FallbackRecommendation].
//
// # Purity
//
// Every function in this package is a pure function of its arguments. The
// Record Store hands out copies; projections never mutate their input.
// Mutable dashboard state lives in the pipeline package.
package domain
