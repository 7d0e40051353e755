// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Parser: Splits text into annotated sentences (CoNLL-U, UDPipe)
//   - EmbeddingService: Generates sentence vectors for the LSA metrics
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingStore: Persistent embedding cache. Without it, the persistent policy acts like process.
//   - RunStore: Reorder history. Without it, runs are not recorded.
//   - FrequencyTable: Word frequencies. Without it, frequency metrics report zero.
//   - MetricsRecorder: Operational counters. Without it, nothing is recorded.
//
// # Adapter-side Interfaces
//
//   - Normaliser: Strips markup from input files before they reach the Parser.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
