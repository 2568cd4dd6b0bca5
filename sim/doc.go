// Package sim provides the core Query Tree anti-collision engine.
//
// # Reading Guide
//
// Start with these files to understand the protocol kernel:
//   - identifier.go: Identifier, Prefix and the validated Population
//   - channel.go: Query, the reader broadcast that returns matching tags
//   - resolver.go: Split, which turns a collision into two child prefixes
//   - driver.go: Resolution, the pop/query/classify/push loop over a Frontier
//
// # Architecture
//
// The sim package holds the pure, single-goroutine engine; everything around
// it lives in sub-packages:
//   - sim/population/: uniform tag generation and YAML population files
//   - sim/trace/: per-query records and identification coverage
//   - sim/sweep/: population-size sweeps over concurrent independent trials
//   - sim/store/: SQLite archive of sweep results
//   - sim/telemetry/: Prometheus export of sweep progress
//
// # Determinism
//
// A Resolution is a pure function of its Population: the same tags in the
// same order always produce the same query sequence and count. Randomness
// is confined to population generation, seeded through PartitionedRNG.
package sim
