// Package authcore provides a dual-token authentication engine: short-lived
// JWT access tokens checked statelessly on every request, long-lived JWT
// refresh tokens whose authority is anchored in a Redis current-refresh slot,
// and sorted-set session indices that make revoke-all exact.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. All shared state lives in Redis, so several processes
// built against the same Redis instance and signing secret act as one
// logical engine.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Principal, TokenPair, MetricsSnapshot). Flow orchestration,
// audit dispatch, and counters live under internal/ and are never exported.
// The token codec and session store are small public sub-packages because
// supporting tools (the sweep daemon, host HTTP layers) need them directly.
//
// # Performance contract
//
// Authenticate is the hot path. It performs a single HMAC verification and
// no Redis round-trips; the cost is that revocation only bites at refresh
// time, bounded by the access-token TTL. Login and refresh each perform one
// pipelined Redis write.
package authcore
