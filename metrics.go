package authcore

import "github.com/blogstack/authcore/internal/metrics"

// MetricID identifies one engine counter.
type MetricID = metrics.MetricID

const (
	MetricLoginSuccess      = metrics.MetricLoginSuccess
	MetricLoginFailure      = metrics.MetricLoginFailure
	MetricRefreshSuccess    = metrics.MetricRefreshSuccess
	MetricRefreshFailure    = metrics.MetricRefreshFailure
	MetricSessionCreated    = metrics.MetricSessionCreated
	MetricRevokeAll         = metrics.MetricRevokeAll
	MetricRegisterSuccess   = metrics.MetricRegisterSuccess
	MetricRegisterThrottled = metrics.MetricRegisterThrottled
	MetricSweepRemoved      = metrics.MetricSweepRemoved
)

// MetricsSnapshot is a point-in-time copy of all engine counters.
type MetricsSnapshot = metrics.Snapshot
