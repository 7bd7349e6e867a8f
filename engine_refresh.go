package authcore

import (
	"context"

	"github.com/blogstack/authcore/internal/flows"
)

// Refresh rotates a refresh token: the presented token must decode as an
// authentic unexpired refresh-kind token AND match the user's current-refresh
// slot byte for byte. On success a fresh pair is issued and installed; the
// presented refresh token is retired. Access tokens minted earlier stay valid
// until their own expiry.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil || e.codec == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunRefresh(ctx, refreshToken, flows.RefreshDeps{
		Verify:         e.codec.Verify,
		CurrentRefresh: e.sessionStore.CurrentRefresh,
		IssueAccess:    e.codec.IssueAccess,
		IssueRefresh:   e.codec.IssueRefresh,
		SwapRefresh:    e.sessionStore.SwapRefresh,
		RefreshTTL:     e.codec.RefreshTTL,
	})

	if result.Failure != flows.RefreshFailureNone {
		err := e.refreshFailureError(result)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, result.Username, err, func() map[string]string {
			return map[string]string{"reason": refreshFailureReason(result.Failure)}
		})
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, result.Username, nil, nil)

	return &TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, nil
}

func (e *Engine) refreshFailureError(result flows.RefreshResult) error {
	switch result.Failure {
	case flows.RefreshFailureBlank, flows.RefreshFailureInvalid:
		return ErrInvalidRefreshToken
	case flows.RefreshFailureExpired, flows.RefreshFailureWrongKind:
		// Wrong kind means an authentic access token was presented for
		// refresh; treated like expiry so the client re-authenticates.
		return ErrExpiredRefreshToken
	case flows.RefreshFailureRevoked:
		return ErrRevokedRefreshToken
	case flows.RefreshFailureMismatched:
		return ErrMismatchedRefreshToken
	default:
		return result.Err
	}
}

func refreshFailureReason(kind flows.RefreshFailureKind) string {
	switch kind {
	case flows.RefreshFailureBlank:
		return "blank_token"
	case flows.RefreshFailureInvalid:
		return "invalid_token"
	case flows.RefreshFailureExpired:
		return "token_expired"
	case flows.RefreshFailureWrongKind:
		return "wrong_token_kind"
	case flows.RefreshFailureRevoked:
		return "no_current_refresh"
	case flows.RefreshFailureMismatched:
		return "slot_mismatch"
	case flows.RefreshFailureStore:
		return "store_failure"
	case flows.RefreshFailureIssue:
		return "issue_failure"
	default:
		return "unknown"
	}
}
