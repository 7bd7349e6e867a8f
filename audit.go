package authcore

import (
	"context"
	"time"

	"github.com/blogstack/authcore/internal/audit"
)

const (
	auditEventLoginSuccess       = "login_success"
	auditEventLoginFailure       = "login_failure"
	auditEventRefreshSuccess     = "refresh_success"
	auditEventRefreshFailure     = "refresh_failure"
	auditEventLogout             = "logout"
	auditEventRevokeAll          = "revoke_all"
	auditEventRegisterSuccess    = "register_success"
	auditEventRegisterFailure    = "register_failure"
	auditEventPasswordChanged    = "password_changed"
	auditEventAccountDeactivated = "account_deactivated"
	auditEventAccountReactivated = "account_reactivated"
	auditEventSweepCompleted     = "sweep_completed"
)

// emitAudit builds and dispatches one audit event. The metadata closure is
// only invoked when auditing is enabled, so failure paths stay allocation
// free in the common disabled case.
func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, username string, failure error, meta func() map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := audit.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Username:  username,
		Success:   success,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	if meta != nil {
		event.Metadata = meta()
	}

	e.audit.Emit(ctx, event)
}
