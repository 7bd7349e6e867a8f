package flows

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blogstack/authcore/session"
	"github.com/blogstack/authcore/token"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureBlank
	RefreshFailureInvalid
	RefreshFailureExpired
	RefreshFailureWrongKind
	RefreshFailureRevoked
	RefreshFailureMismatched
	RefreshFailureStore
	RefreshFailureIssue
)

// RefreshResult carries either the rotated token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	Username     string
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	Verify         func(string) (*token.Claims, error)
	CurrentRefresh func(ctx context.Context, username string) (string, bool, error)
	IssueAccess    func(subject, role string) (string, time.Time, error)
	IssueRefresh   func(subject, role string) (string, time.Time, error)
	SwapRefresh    func(ctx context.Context, username, oldRefresh string, access, refresh session.Entry, refreshTTL time.Duration) error
	RefreshTTL     func() time.Duration
}

// RunRefresh executes the rotation protocol: signature and kind checks are
// stateless; authority comes from strict string equality against the
// current-refresh slot. At most one refresh token per user is ever current,
// so a superseded token fails here even when its signature and expiry are
// still technically valid.
func RunRefresh(ctx context.Context, refreshToken string, deps RefreshDeps) RefreshResult {
	if strings.TrimSpace(refreshToken) == "" {
		return RefreshResult{Failure: RefreshFailureBlank}
	}

	claims, err := deps.Verify(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpired):
			return RefreshResult{Failure: RefreshFailureExpired, Err: err, Username: claims.Subject()}
		default:
			// Garbage or forged input: reject outright, nothing to clean up.
			return RefreshResult{Failure: RefreshFailureInvalid, Err: err}
		}
	}
	if !claims.IsRefresh() {
		return RefreshResult{Failure: RefreshFailureWrongKind, Username: claims.Subject()}
	}

	username := claims.Subject()
	role := claims.Role

	stored, ok, err := deps.CurrentRefresh(ctx, username)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureStore, Err: err, Username: username}
	}
	if !ok {
		return RefreshResult{Failure: RefreshFailureRevoked, Username: username}
	}
	// Strict equality, no grace window.
	if stored != refreshToken {
		return RefreshResult{Failure: RefreshFailureMismatched, Username: username}
	}

	access, accessExp, err := deps.IssueAccess(username, role)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssue, Err: err, Username: username}
	}
	newRefresh, refreshExp, err := deps.IssueRefresh(username, role)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssue, Err: err, Username: username}
	}

	err = deps.SwapRefresh(ctx, username, refreshToken,
		session.Entry{Kind: token.KindAccess, Token: access, ExpiresAt: accessExp},
		session.Entry{Kind: token.KindRefresh, Token: newRefresh, ExpiresAt: refreshExp},
		deps.RefreshTTL(),
	)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureStore, Err: err, Username: username}
	}

	return RefreshResult{
		Failure:      RefreshFailureNone,
		Username:     username,
		AccessToken:  access,
		RefreshToken: newRefresh,
	}
}
