package auth

import "github.com/authhub/authhub/internal/token"

// ValidationResult is what an external gateway gets back from an access
// check. Failures are folded into the struct; the call itself never errors.
type ValidationResult struct {
	Valid   bool          `json:"valid"`
	Payload *token.Claims `json:"payload,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type ValidationUseCase struct {
	tokens TokenService
}

func NewValidationUseCase(tokens TokenService) *ValidationUseCase {
	return &ValidationUseCase{tokens: tokens}
}

func (uc *ValidationUseCase) ValidateToken(tokenStr string) ValidationResult {
	claims, err := uc.tokens.Verify(tokenStr)

	if err != nil {
		return ValidationResult{Valid: false, Error: err.Error()}
	}

	return ValidationResult{Valid: true, Payload: claims}
}
