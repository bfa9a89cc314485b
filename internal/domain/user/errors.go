package user

import "errors"

// Shared repository sentinels so every store implementation reports the same
// conditions.
var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)
