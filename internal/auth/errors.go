package auth

import "errors"

// Use cases normalize every underlying hashing/signing/storage failure into
// this taxonomy; no raw library error escapes the package.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("email or password is incorrect")

	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrDuplicateEmail      = errors.New("email is already in use")
	ErrUpstreamUnavailable = errors.New("user store unavailable")
)
