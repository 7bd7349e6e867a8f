package authcore

import (
	"context"
	"strings"
	"time"

	"github.com/blogstack/authcore/internal/audit"
	"github.com/blogstack/authcore/internal/metrics"
	"github.com/blogstack/authcore/password"
	"github.com/blogstack/authcore/session"
	"github.com/blogstack/authcore/token"
)

// Engine is the authentication core: credential checks, dual-kind token
// issuance, refresh rotation, and session revocation bookkeeping.
//
// Engine instances are built once via Builder and are safe for concurrent
// use. All shared state lives in Redis, so multiple processes built against
// the same Redis instance and signing secret act as one logical engine.
type Engine struct {
	config       Config
	codec        *token.Codec
	sessionStore *session.Store
	hasher       *password.Hasher
	userProvider UserProvider
	audit        *audit.Dispatcher
	metrics      *metrics.Metrics
}

// Close drains and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Authenticate checks a presented access token and returns the caller's
// identity. The check is purely cryptographic: signature, expiry, and kind.
// No store round trip happens here, which keeps the hot request path free of
// Redis and means revocation takes effect only at refresh time.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (Principal, error) {
	if e == nil || e.codec == nil {
		return Principal{}, ErrEngineNotReady
	}
	if strings.TrimSpace(accessToken) == "" {
		return Principal{}, ErrUnauthorized
	}

	claims, err := e.codec.Verify(accessToken)
	if err != nil {
		return Principal{}, ErrTokenInvalid
	}
	if claims.IsRefresh() {
		// Refresh tokens carry no request authority.
		return Principal{}, ErrTokenInvalid
	}

	return Principal{Username: claims.Subject(), Role: claims.Role}, nil
}

// Ping reports session store availability and round-trip latency.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}
	return e.sessionStore.Ping(ctx)
}
