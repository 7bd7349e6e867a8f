package flows

import (
	"context"
	"time"
)

// RegisterErrors carries host-level sentinel errors used by registration.
type RegisterErrors struct {
	UsernameTaken         error
	EmailTaken            error
	RegistrationThrottled error
}

// RegisterDeps captures registration flow dependencies.
type RegisterDeps struct {
	ExistsByUsername func(context.Context, string) (bool, error)
	ExistsByEmail    func(context.Context, string) (bool, error)
	AcquireLock      func(ctx context.Context, username string, ttl time.Duration) (bool, error)
	HashPassword     func(string) (string, error)
	CreateUser       func(context.Context, UserRecord) error
	LockTTL          time.Duration
	DefaultRole      string

	Errors RegisterErrors
}

// RunRegister creates a new enabled account. The registration lock is a
// short-lived SETNX debounce keyed on username, so duplicate submissions
// inside the window fail fast instead of racing the uniqueness checks.
func RunRegister(ctx context.Context, username, email, plainPassword string, deps RegisterDeps) (UserRecord, error) {
	taken, err := deps.ExistsByUsername(ctx, username)
	if err != nil {
		return UserRecord{}, err
	}
	if taken {
		return UserRecord{}, deps.Errors.UsernameTaken
	}
	taken, err = deps.ExistsByEmail(ctx, email)
	if err != nil {
		return UserRecord{}, err
	}
	if taken {
		return UserRecord{}, deps.Errors.EmailTaken
	}

	acquired, err := deps.AcquireLock(ctx, username, deps.LockTTL)
	if err != nil {
		return UserRecord{}, err
	}
	if !acquired {
		return UserRecord{}, deps.Errors.RegistrationThrottled
	}

	hash, err := deps.HashPassword(plainPassword)
	if err != nil {
		return UserRecord{}, err
	}

	user := UserRecord{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         deps.DefaultRole,
		Enabled:      true,
	}
	if err := deps.CreateUser(ctx, user); err != nil {
		return UserRecord{}, err
	}
	return user, nil
}
