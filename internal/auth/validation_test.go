package auth_test

import (
	"testing"
	"time"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

func TestValidateToken(t *testing.T) {
	tokens := token.NewService("test-secret-key", time.Hour, 7*24*time.Hour)
	uc := auth.NewValidationUseCase(tokens)

	valid, err := tokens.Generate("user-1", "sam@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	expired := signExpired(t, "test-secret-key")

	tests := []struct {
		name      string
		token     string
		wantValid bool
	}{
		{name: "valid", token: valid, wantValid: true},
		{name: "expired", token: expired, wantValid: false},
		{name: "garbage", token: "garbage", wantValid: false},
		{name: "empty", token: "", wantValid: false},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			res := uc.ValidateToken(tt.token)

			if res.Valid != tt.wantValid {
				t.Fatalf("got valid=%v, want %v (error=%q)", res.Valid, tt.wantValid, res.Error)
			}

			if tt.wantValid {
				if res.Payload == nil || res.Payload.UserID != "user-1" || res.Payload.Email != "sam@example.com" {
					t.Fatalf("payload mismatch: %+v", res.Payload)
				}

				if res.Error != "" {
					t.Fatalf("valid result must not carry an error, got %q", res.Error)
				}
			} else {
				if res.Payload != nil {
					t.Fatalf("invalid result must not carry a payload, got %+v", res.Payload)
				}

				if res.Error == "" {
					t.Fatalf("invalid result must explain itself")
				}
			}
		})
	}
}

func signExpired(t *testing.T, secret string) string {
	t.Helper()

	now := time.Now().UTC()

	claims := token.Claims{
		UserID: "user-1",
		Email:  "sam@example.com",
		JTI:    "expired-jti",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))

	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	return raw
}
