package auth

import "context"

type RefreshTokenUseCase struct {
	tokens TokenService
}

func NewRefreshTokenUseCase(tokens TokenService) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{tokens: tokens}
}

// Refresh verifies the presented refresh token and mints a brand-new
// access+refresh pair from its claims. The old refresh token is not tracked
// or invalidated; it stays valid until its own expiry. Any verification
// failure (expired, malformed, tampered) surfaces as ErrInvalidRefreshToken.
func (uc *RefreshTokenUseCase) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	claims, err := uc.tokens.Verify(refreshToken)

	if err != nil {
		return AuthResult{}, ErrInvalidRefreshToken
	}

	access, err := uc.tokens.Generate(claims.UserID, claims.Email)

	if err != nil {
		return AuthResult{}, ErrUpstreamUnavailable
	}

	refresh, err := uc.tokens.GenerateRefresh(claims.UserID, claims.Email)

	if err != nil {
		return AuthResult{}, ErrUpstreamUnavailable
	}

	return AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       claims.UserID,
		Email:        claims.Email,
	}, nil
}
