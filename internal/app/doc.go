// Package app provides the application service layer.
//
// Orchestrates use cases: reading and updating bias scorecards, analyzing economic events,
// and the scheduled scorecard recompute. Sits between HTTP handlers and the engine. Depends
// on domain interfaces, not concrete implementations.
package app
