package flows

import (
	"context"
	"time"

	"github.com/blogstack/authcore/session"
)

// TokenPair is the flow-local issuance result.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserRecord is the flow-local account model.
type UserRecord struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Enabled      bool
}

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	LoginSuccess   int
	LoginFailure   int
	SessionCreated int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	LoginSuccess string
	LoginFailure string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady     error
	UserNotFound       error
	AccountDeactivated error
	IncorrectPassword  error
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	FindUser        func(context.Context, string) (UserRecord, bool, error)
	VerifyPassword  func(plain, hash string) (bool, error)
	UpdateLastLogin func(context.Context, string) error

	IssueAccess  func(subject, role string) (string, time.Time, error)
	IssueRefresh func(subject, role string) (string, time.Time, error)
	RecordPair   func(ctx context.Context, username string, access, refresh session.Entry, refreshTTL time.Duration) error
	RefreshTTL   func() time.Duration

	MetricInc func(int)
	EmitAudit func(ctx context.Context, eventType string, success bool, username string, failure error, meta func() map[string]string)
	Warn      func(string, ...any)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

// RunLogin validates credentials, mints an access+refresh pair, and records
// it in the session store. The current-refresh slot write is a plain
// overwrite: concurrent logins from two devices serialize to last-write-wins
// for the slot while both pairs stay individually valid in the indices.
func RunLogin(ctx context.Context, username, plainPassword string, deps LoginDeps) (*TokenPair, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.FindUser == nil ||
		deps.VerifyPassword == nil ||
		deps.IssueAccess == nil ||
		deps.IssueRefresh == nil ||
		deps.RecordPair == nil ||
		deps.RefreshTTL == nil {
		return nil, deps.Errors.EngineNotReady
	}

	user, found, err := deps.FindUser(ctx, username)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, username, err, func() map[string]string {
			return map[string]string{"reason": "user_lookup_failed"}
		})
		return nil, err
	}
	if !found {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, username, deps.Errors.UserNotFound, func() map[string]string {
			return map[string]string{"reason": "user_not_found"}
		})
		return nil, deps.Errors.UserNotFound
	}
	if !user.Enabled {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, username, deps.Errors.AccountDeactivated, func() map[string]string {
			return map[string]string{"reason": "account_deactivated"}
		})
		return nil, deps.Errors.AccountDeactivated
	}

	ok, err := deps.VerifyPassword(plainPassword, user.PasswordHash)
	if err != nil || !ok {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, username, deps.Errors.IncorrectPassword, func() map[string]string {
			return map[string]string{"reason": "password_mismatch"}
		})
		return nil, deps.Errors.IncorrectPassword
	}
	plainPassword = ""

	if deps.UpdateLastLogin != nil {
		if err := deps.UpdateLastLogin(ctx, user.Username); err != nil {
			deps.Warn("authcore: last-login update failed")
		}
	}

	access, accessExp, err := deps.IssueAccess(user.Username, user.Role)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, user.Username, err, func() map[string]string {
			return map[string]string{"reason": "issue_access_failed"}
		})
		return nil, err
	}
	refresh, refreshExp, err := deps.IssueRefresh(user.Username, user.Role)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, user.Username, err, func() map[string]string {
			return map[string]string{"reason": "issue_refresh_failed"}
		})
		return nil, err
	}

	err = deps.RecordPair(ctx, user.Username,
		session.Entry{Kind: "access", Token: access, ExpiresAt: accessExp},
		session.Entry{Kind: "refresh", Token: refresh, ExpiresAt: refreshExp},
		deps.RefreshTTL(),
	)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, user.Username, err, func() map[string]string {
			return map[string]string{"reason": "session_record_failed"}
		})
		return nil, err
	}

	deps.MetricInc(deps.Metrics.SessionCreated)
	deps.MetricInc(deps.Metrics.LoginSuccess)
	deps.EmitAudit(ctx, deps.Events.LoginSuccess, true, user.Username, nil, nil)

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
