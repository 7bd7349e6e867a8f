package flows

import (
	"context"
	"errors"

	"github.com/blogstack/authcore/token"
)

// LogoutDeps captures logout and revocation flow dependencies.
type LogoutDeps struct {
	Verify           func(string) (*token.Claims, error)
	RevokeAllForUser func(ctx context.Context, username string) (int, error)
}

// LogoutResult reports which account was revoked and how many tokens fell.
type LogoutResult struct {
	Username string
	Revoked  int
	Err      error
}

// RunRevokeAll drops every live token for the named account, including the
// current-refresh slot.
func RunRevokeAll(ctx context.Context, username string, deps LogoutDeps) LogoutResult {
	n, err := deps.RevokeAllForUser(ctx, username)
	return LogoutResult{Username: username, Revoked: n, Err: err}
}

// RunLogoutByAccessToken resolves the account from a presented access token
// and revokes everything it owns. An expired token is still honored here so a
// client can always log out, but forged or malformed tokens are rejected.
func RunLogoutByAccessToken(ctx context.Context, accessToken string, deps LogoutDeps) LogoutResult {
	claims, err := deps.Verify(accessToken)
	if err != nil && !errors.Is(err, token.ErrExpired) {
		return LogoutResult{Err: err}
	}
	if claims.IsRefresh() {
		return LogoutResult{Err: token.ErrMalformed}
	}
	return RunRevokeAll(ctx, claims.Subject(), deps)
}
