// Package metrics provides lock-free counters for auth engine observability.
//
// Counters are stored in cache-line-padded uint64 slots and incremented
// atomically. Export lives outside this package and reads Snapshot values.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import the root package or any sibling package.
//   - Expose global metric registries.
package metrics
