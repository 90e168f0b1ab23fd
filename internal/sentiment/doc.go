// Package sentiment implements the currency sentiment engine.
//
// InMemoryStore holds the per-currency bias scorecards and keeps their derived fields (weighted score, bias)
// consistent with the raw pillar scores. Analyze turns a single economic-event observation into a bounded
// sentiment verdict with ordered reasoning. Neither performs I/O.
package sentiment
