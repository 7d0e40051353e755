// Package domain defines the core business entities for sentorder.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Word, Sentence, Document: annotated text produced by a parser
//   - ConstituencyTree: phrase-structure tree stored as an index arena
//   - WeightVector, ScoreBreakdown: cohesion scoring inputs and outputs
//   - Settings: tunable scoring, search and provider configuration
//   - ReorderResult, RunRecord: outcome of a reorder and its history entry
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
