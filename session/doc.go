// Package session implements the Redis-backed token bookkeeping behind the
// auth engine: per-user sorted-set indices of live tokens scored by expiry,
// per-token reverse lookups, the single current-refresh-token slot, and the
// registration debounce lock.
//
// # Architecture boundaries
//
// This package owns key layout and Redis I/O. It never parses or creates
// tokens — raw strings and their expiries come from the caller.
package session
