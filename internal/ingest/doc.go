// Package ingest converts raw calendar rows, as scraped or typed in by an operator, into
// engine observations.
//
// Title-based category matching lives here and nowhere else: the engine only looks at the
// explicit category tag.
package ingest
