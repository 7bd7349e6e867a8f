package authcore

import (
	"context"
	"log"
	"strconv"
	"time"
)

// Sweep walks every user known to the session store and purges index entries
// whose expiry is at or before now. Reverse lookups and current-refresh
// slots carry their own Redis TTLs and clean themselves; the sweep exists
// because sorted-set members never expire on their own. It returns the total
// number of entries removed.
func (e *Engine) Sweep(ctx context.Context) (int64, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}

	users, err := e.sessionStore.KnownUsers(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var removed int64
	for _, username := range users {
		n, err := e.sessionStore.PurgeExpired(ctx, username, now)
		if err != nil {
			return removed, err
		}
		removed += n
	}

	if removed > 0 {
		e.metrics.Add(MetricSweepRemoved, uint64(removed))
	}
	e.emitAudit(ctx, auditEventSweepCompleted, true, "", nil, func() map[string]string {
		return map[string]string{"removed": strconv.FormatInt(removed, 10)}
	})

	return removed, nil
}

// RunSweeper blocks, running Sweep on the configured interval until ctx is
// canceled. Sweep errors are logged and the loop continues; a transient
// Redis outage should not kill the daemon.
func (e *Engine) RunSweeper(ctx context.Context) {
	if e == nil {
		return
	}
	interval := e.config.Sweep.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.Sweep(ctx); err != nil {
				log.Print("authcore: sweep failed")
			}
		}
	}
}
