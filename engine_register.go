package authcore

import (
	"context"
	"errors"

	"github.com/blogstack/authcore/internal/flows"
)

// Register creates a new enabled account with the default role. Uniqueness
// of username and email is checked first; a short-lived Redis lock then
// debounces duplicate submissions that arrive inside the same window.
func (e *Engine) Register(ctx context.Context, username, email, plainPassword string) error {
	if e == nil || e.sessionStore == nil || e.hasher == nil || e.userProvider == nil {
		return ErrEngineNotReady
	}

	_, err := flows.RunRegister(ctx, username, email, plainPassword, flows.RegisterDeps{
		ExistsByUsername: e.userProvider.ExistsByUsername,
		ExistsByEmail:    e.userProvider.ExistsByEmail,
		AcquireLock:      e.sessionStore.AcquireRegistrationLock,
		HashPassword:     e.hasher.Hash,
		CreateUser: func(ctx context.Context, user flows.UserRecord) error {
			return e.userProvider.Create(ctx, UserRecord(user))
		},
		LockTTL:     e.config.Register.DebounceTTL,
		DefaultRole: e.config.Register.DefaultRole,
		Errors: flows.RegisterErrors{
			UsernameTaken:         ErrUsernameTaken,
			EmailTaken:            ErrEmailTaken,
			RegistrationThrottled: ErrRegistrationThrottled,
		},
	})
	if err != nil {
		if errors.Is(err, ErrRegistrationThrottled) {
			e.metricInc(MetricRegisterThrottled)
		}
		e.emitAudit(ctx, auditEventRegisterFailure, false, username, err, nil)
		return err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, username, nil, nil)
	return nil
}
