// Package middleware exposes net/http adapters over authcore.Engine request
// authentication.
//
// # Stages
//
//   - [Authenticate] — reads the Authorization header, verifies the access
//     token, and injects the principal into the request context. Anonymous
//     and invalid-token requests pass through unauthenticated.
//   - [RequireAuth] — rejects anonymous requests with 401.
//   - [RequireRole] — rejects requests without the named role.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself; all decisions are delegated to
// Engine.Authenticate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (request authentication never touches the store).
package middleware
