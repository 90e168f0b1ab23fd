// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (currency.go, pillar.go, scorecard.go, observation.go, etc.)
// with shared types and cross-cutting interfaces. No I/O, only value types and the rules they enforce.
// Prevents circular imports by keeping interfaces on the consumer side.
package domain
