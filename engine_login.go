package authcore

import (
	"context"
	"log"
	"time"

	"github.com/blogstack/authcore/internal/flows"
)

// Login verifies username/password against the user provider and, on
// success, mints an access+refresh pair and records it in the session store.
// The new refresh token overwrites the user's current-refresh slot, so the
// previous login's refresh lineage is silently superseded.
func (e *Engine) Login(ctx context.Context, username, plainPassword string) (*TokenPair, error) {
	if e == nil || e.codec == nil || e.sessionStore == nil || e.hasher == nil || e.userProvider == nil {
		return nil, ErrEngineNotReady
	}

	pair, err := flows.RunLogin(ctx, username, plainPassword, flows.LoginDeps{
		FindUser: func(ctx context.Context, name string) (flows.UserRecord, bool, error) {
			rec, found, err := e.userProvider.FindByUsername(ctx, name)
			return flows.UserRecord(rec), found, err
		},
		VerifyPassword:  e.hasher.Verify,
		UpdateLastLogin: e.userProvider.UpdateLastLogin,

		IssueAccess:  e.codec.IssueAccess,
		IssueRefresh: e.codec.IssueRefresh,
		RecordPair:   e.sessionStore.RecordPair,
		RefreshTTL:   e.codec.RefreshTTL,

		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,
		Warn:      log.Printf,

		Metrics: flows.LoginMetrics{
			LoginSuccess:   int(MetricLoginSuccess),
			LoginFailure:   int(MetricLoginFailure),
			SessionCreated: int(MetricSessionCreated),
		},
		Events: flows.LoginEvents{
			LoginSuccess: auditEventLoginSuccess,
			LoginFailure: auditEventLoginFailure,
		},
		Errors: flows.LoginErrors{
			EngineNotReady:     ErrEngineNotReady,
			UserNotFound:       ErrUserNotFound,
			AccountDeactivated: ErrAccountDeactivated,
			IncorrectPassword:  ErrIncorrectPassword,
		},
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (e *Engine) AccessTTL() time.Duration {
	if e == nil || e.codec == nil {
		return 0
	}
	return e.codec.AccessTTL()
}

// RefreshTTL returns the configured refresh-token lifetime.
func (e *Engine) RefreshTTL() time.Duration {
	if e == nil || e.codec == nil {
		return 0
	}
	return e.codec.RefreshTTL()
}
