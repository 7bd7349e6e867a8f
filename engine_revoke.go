package authcore

import (
	"context"
	"log"

	"github.com/blogstack/authcore/internal/flows"
)

func (e *Engine) logoutDeps() flows.LogoutDeps {
	return flows.LogoutDeps{
		Verify:           e.codec.Verify,
		RevokeAllForUser: e.sessionStore.RevokeAllForUser,
	}
}

// RevokeAll drops every live token the named account holds, including the
// current-refresh slot. Any access token the user still carries keeps
// passing stateless authentication until it expires; what dies immediately
// is the ability to refresh.
func (e *Engine) RevokeAll(ctx context.Context, username string) error {
	if e == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}

	result := flows.RunRevokeAll(ctx, username, e.logoutDeps())
	if result.Err != nil {
		e.emitAudit(ctx, auditEventRevokeAll, false, username, result.Err, nil)
		return result.Err
	}

	e.metricInc(MetricRevokeAll)
	e.emitAudit(ctx, auditEventRevokeAll, true, username, nil, nil)
	return nil
}

// Logout resolves the account from a presented access token and revokes all
// of its tokens. Expired access tokens are accepted so a client can always
// log out; forged or malformed tokens are rejected.
func (e *Engine) Logout(ctx context.Context, accessToken string) error {
	if e == nil || e.codec == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}

	result := flows.RunLogoutByAccessToken(ctx, accessToken, e.logoutDeps())
	if result.Err != nil {
		if result.Username == "" {
			e.emitAudit(ctx, auditEventLogout, false, "", ErrTokenInvalid, func() map[string]string {
				return map[string]string{"reason": "invalid_access_token"}
			})
			return ErrTokenInvalid
		}
		e.emitAudit(ctx, auditEventLogout, false, result.Username, result.Err, nil)
		return result.Err
	}

	e.metricInc(MetricRevokeAll)
	e.emitAudit(ctx, auditEventLogout, true, result.Username, nil, nil)
	return nil
}

// UpdatePassword verifies the current password, stores a new hash, and
// revokes every live token so stale sessions cannot outlive the change.
func (e *Engine) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if e == nil || e.hasher == nil || e.userProvider == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}

	user, found, err := e.userProvider.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	if !user.Enabled {
		return ErrAccountDeactivated
	}

	ok, err := e.hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrIncorrectPassword
	}

	newHash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := e.userProvider.UpdatePasswordHash(ctx, username, newHash); err != nil {
		return err
	}

	if err := e.RevokeAll(ctx, username); err != nil {
		log.Print("authcore: session revocation failed after password change")
		return err
	}

	e.emitAudit(ctx, auditEventPasswordChanged, true, username, nil, nil)
	return nil
}

// DeactivateAccount disables the account and revokes all of its tokens.
// A deactivated account fails login and refresh until reactivated.
func (e *Engine) DeactivateAccount(ctx context.Context, username string) error {
	if e == nil || e.userProvider == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}

	if err := e.userProvider.SetEnabled(ctx, username, false); err != nil {
		return err
	}
	if err := e.RevokeAll(ctx, username); err != nil {
		return err
	}

	e.emitAudit(ctx, auditEventAccountDeactivated, true, username, nil, nil)
	return nil
}

// ReactivateAccount re-enables a deactivated account. No tokens are issued;
// the user logs in again normally.
func (e *Engine) ReactivateAccount(ctx context.Context, username string) error {
	if e == nil || e.userProvider == nil {
		return ErrEngineNotReady
	}

	if err := e.userProvider.SetEnabled(ctx, username, true); err != nil {
		return err
	}

	e.emitAudit(ctx, auditEventAccountReactivated, true, username, nil, nil)
	return nil
}
