package authcore

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the given username.
	ErrUserNotFound = errors.New("user not found")
	// ErrIncorrectPassword is returned when the password does not match the stored hash.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrAccountDeactivated is returned when the account exists but is disabled.
	ErrAccountDeactivated = errors.New("account deactivated")

	// ErrInvalidRefreshToken is returned for blank, malformed, or forged refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrExpiredRefreshToken is returned for an authentic refresh token past its
	// expiry, or an authentic token of the wrong kind.
	ErrExpiredRefreshToken = errors.New("expired refresh token")
	// ErrRevokedRefreshToken is returned when the account holds no current
	// refresh token at all.
	ErrRevokedRefreshToken = errors.New("revoked refresh token")
	// ErrMismatchedRefreshToken is returned when a live-looking refresh token
	// has been superseded by a newer login or rotation.
	ErrMismatchedRefreshToken = errors.New("refresh token mismatch")

	// ErrTokenInvalid is returned by request authentication for any token that
	// does not decode to a valid access-kind token.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrUnauthorized is returned when a request carries no usable credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUsernameTaken is returned when registration hits an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrRegistrationThrottled is returned when a duplicate registration lands
	// inside the debounce window.
	ErrRegistrationThrottled = errors.New("registration throttled")

	// ErrEngineNotReady is returned when the engine is used before Build wired
	// all required dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
