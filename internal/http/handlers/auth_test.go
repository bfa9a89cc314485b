package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/config"
	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/http/handlers"
	"github.com/authhub/authhub/internal/token"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementations of the handler-facing service interfaces

type fakeAuthServices struct {
	loginFn    func(ctx context.Context, creds user.Credentials) (auth.AuthResult, error)
	refreshFn  func(ctx context.Context, refreshToken string) (auth.AuthResult, error)
	registerFn func(ctx context.Context, email, password string) (user.User, error)
	validateFn func(tokenStr string) auth.ValidationResult
}

func (f *fakeAuthServices) Login(ctx context.Context, creds user.Credentials) (auth.AuthResult, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, creds)
	}

	return auth.AuthResult{}, nil
}

func (f *fakeAuthServices) Refresh(ctx context.Context, refreshToken string) (auth.AuthResult, error) {
	if f.refreshFn != nil {
		return f.refreshFn(ctx, refreshToken)
	}

	return auth.AuthResult{}, nil
}

func (f *fakeAuthServices) Register(ctx context.Context, email, password string) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password)
	}

	return user.User{}, nil
}

func (f *fakeAuthServices) ValidateToken(tokenStr string) auth.ValidationResult {
	if f.validateFn != nil {
		return f.validateFn(tokenStr)
	}

	return auth.ValidationResult{Valid: false, Error: "invalid token"}
}

func testConfig() config.Config {
	return config.Config{
		Env:           "test",
		JWTRefreshTTL: token.DefaultRefreshTTL,
	}
}

func newHandler(f *fakeAuthServices) *handlers.AuthHandler {
	return handlers.NewAuthHandler(f, f, f, f, nil, testConfig())
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doJSON(r http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestLoginHandler(t *testing.T) {
	okResult := auth.AuthResult{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		UserID:       "user-1",
		Email:        "sam@example.com",
	}

	tests := []struct {
		name           string
		body           string
		setUp          func(*fakeAuthServices)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email":"sam@example.com","password":"password123"}`,
			setUp: func(f *fakeAuthServices) {
				f.loginFn = func(ctx context.Context, creds user.Credentials) (auth.AuthResult, error) {
					return okResult, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "invalid_credentials",
			body: `{"email":"sam@example.com","password":"wrong"}`,
			setUp: func(f *fakeAuthServices) {
				f.loginFn = func(ctx context.Context, creds user.Credentials) (auth.AuthResult, error) {
					return auth.AuthResult{}, auth.ErrInvalidCredentials
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "validation_error",
			body:           `{"email":"not-an-email","password":""}`,
			setUp:          func(f *fakeAuthServices) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "upstream_down",
			body: `{"email":"sam@example.com","password":"password123"}`,
			setUp: func(f *fakeAuthServices) {
				f.loginFn = func(ctx context.Context, creds user.Credentials) (auth.AuthResult, error) {
					return auth.AuthResult{}, auth.ErrUpstreamUnavailable
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthServices{}

			if tt.setUp != nil {
				tt.setUp(fake)
			}

			h := newHandler(fake)
			r := setupRouter(http.MethodPost, "/login", h.Login)

			w := doJSON(r, http.MethodPost, "/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var got auth.AuthResult

				if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if got != okResult {
					t.Fatalf("got %+v, want %+v", got, okResult)
				}

				cookieSet := false

				for _, c := range w.Result().Cookies() {
					if c.Name == "refresh_token" && c.Value == "refresh-token" && c.HttpOnly {
						cookieSet = true
					}
				}

				if !cookieSet {
					t.Fatalf("expected HttpOnly refresh_token cookie")
				}
			}
		})
	}
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setUp          func(*fakeAuthServices)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email":"sam@example.com","password":"password123"}`,
			setUp: func(f *fakeAuthServices) {
				f.registerFn = func(ctx context.Context, email, password string) (user.User, error) {
					return user.User{ID: "user-1", Email: email}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "email_taken",
			body: `{"email":"sam@example.com","password":"password123"}`,
			setUp: func(f *fakeAuthServices) {
				f.registerFn = func(ctx context.Context, email, password string) (user.User, error) {
					return user.User{}, auth.ErrDuplicateEmail
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "password_too_short",
			body:           `{"email":"sam@example.com","password":"short"}`,
			setUp:          func(f *fakeAuthServices) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"email":"sam@example.com","password":"password123"}`,
			setUp: func(f *fakeAuthServices) {
				f.registerFn = func(ctx context.Context, email, password string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthServices{}

			if tt.setUp != nil {
				tt.setUp(fake)
			}

			h := newHandler(fake)
			r := setupRouter(http.MethodPost, "/signup", h.SignUp)

			w := doJSON(r, http.MethodPost, "/signup", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	okResult := auth.AuthResult{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		UserID:       "user-1",
		Email:        "sam@example.com",
	}

	t.Run("from_cookie", func(t *testing.T) {
		fake := &fakeAuthServices{
			refreshFn: func(ctx context.Context, refreshToken string) (auth.AuthResult, error) {
				if refreshToken != "old-refresh" {
					t.Fatalf("handler passed wrong token %q", refreshToken)
				}
				return okResult, nil
			},
		}

		h := newHandler(fake)
		r := setupRouter(http.MethodPost, "/auth/refresh", h.Refresh)

		w := doJSON(r, http.MethodPost, "/auth/refresh", "", &http.Cookie{Name: "refresh_token", Value: "old-refresh"})

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
		}

		rotated := false

		for _, c := range w.Result().Cookies() {
			if c.Name == "refresh_token" && c.Value == "new-refresh" {
				rotated = true
			}
		}

		if !rotated {
			t.Fatalf("expected rotated refresh cookie")
		}
	})

	t.Run("from_body", func(t *testing.T) {
		fake := &fakeAuthServices{
			refreshFn: func(ctx context.Context, refreshToken string) (auth.AuthResult, error) {
				if refreshToken != "body-refresh" {
					t.Fatalf("handler passed wrong token %q", refreshToken)
				}
				return okResult, nil
			},
		}

		h := newHandler(fake)
		r := setupRouter(http.MethodPost, "/auth/refresh", h.Refresh)

		w := doJSON(r, http.MethodPost, "/auth/refresh", `{"refreshToken":"body-refresh"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		h := newHandler(&fakeAuthServices{})
		r := setupRouter(http.MethodPost, "/auth/refresh", h.Refresh)

		w := doJSON(r, http.MethodPost, "/auth/refresh", "")

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
		}
	})

	t.Run("invalid_token", func(t *testing.T) {
		fake := &fakeAuthServices{
			refreshFn: func(ctx context.Context, refreshToken string) (auth.AuthResult, error) {
				return auth.AuthResult{}, auth.ErrInvalidRefreshToken
			},
		}

		h := newHandler(fake)
		r := setupRouter(http.MethodPost, "/auth/refresh", h.Refresh)

		w := doJSON(r, http.MethodPost, "/auth/refresh", "", &http.Cookie{Name: "refresh_token", Value: "bad"})

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
		}
	})
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	h := newHandler(&fakeAuthServices{})
	r := setupRouter(http.MethodPost, "/auth/logout", h.Logout)

	w := doJSON(r, http.MethodPost, "/auth/logout", "", &http.Cookie{Name: "refresh_token", Value: "whatever"})

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusNoContent)
	}

	cleared := false

	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" && (c.MaxAge < 0 || c.Value == "") {
			cleared = true
		}
	}

	if !cleared {
		t.Fatalf("expected logout to clear refresh_token cookie")
	}
}

func TestValidateHandler(t *testing.T) {
	fake := &fakeAuthServices{
		validateFn: func(tokenStr string) auth.ValidationResult {
			if tokenStr == "good" {
				return auth.ValidationResult{Valid: true, Payload: &token.Claims{UserID: "user-1", Email: "sam@example.com"}}
			}
			return auth.ValidationResult{Valid: false, Error: "token is malformed"}
		},
	}

	h := newHandler(fake)
	r := setupRouter(http.MethodPost, "/auth/validate", h.Validate)

	// valid and invalid both answer 200; the verdict is in the body

	w := doJSON(r, http.MethodPost, "/auth/validate", `{"token":"good"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var ok auth.ValidationResult

	if err := json.Unmarshal(w.Body.Bytes(), &ok); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !ok.Valid || ok.Payload == nil || ok.Payload.UserID != "user-1" {
		t.Fatalf("unexpected validation result: %+v", ok)
	}

	w2 := doJSON(r, http.MethodPost, "/auth/validate", `{"token":"bad"}`)

	if w2.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w2.Code, http.StatusOK, w2.Body.String())
	}

	var bad auth.ValidationResult

	if err := json.Unmarshal(w2.Body.Bytes(), &bad); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if bad.Valid || bad.Error == "" {
		t.Fatalf("unexpected validation result: %+v", bad)
	}

	// missing token field is a bind error, not a validation verdict
	w3 := doJSON(r, http.MethodPost, "/auth/validate", `{}`)

	if w3.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w3.Code, http.StatusBadRequest, w3.Body.String())
	}
}
