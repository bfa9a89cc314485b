package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/config"
	"github.com/authhub/authhub/internal/domain/user"
	"github.com/authhub/authhub/internal/http/middlewares"
	"github.com/authhub/authhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Small per-use-case interfaces so tests can fake them easily.

type LoginService interface {
	Login(ctx context.Context, creds user.Credentials) (auth.AuthResult, error)
}

type RefreshService interface {
	Refresh(ctx context.Context, refreshToken string) (auth.AuthResult, error)
}

type RegistrationService interface {
	Register(ctx context.Context, email, password string) (user.User, error)
}

type TokenValidator interface {
	ValidateToken(tokenStr string) auth.ValidationResult
}

type AuthHandler struct {
	login     LoginService
	refresh   RefreshService
	register  RegistrationService
	validator TokenValidator
	prom      *observability.Prom
	cfg       config.Config
}

func NewAuthHandler(login LoginService, refresh RefreshService, register RegistrationService, validator TokenValidator, prom *observability.Prom, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		login:     login,
		refresh:   refresh,
		register:  register,
		validator: validator,
		prom:      prom,
		cfg:       cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.register.Register(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup + bcrypt
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	result, err := h.login.Login(cctx, user.Credentials{Email: req.Email, Password: req.Password})

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.observeLogin("invalid_credentials")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.observeLogin("error")
		RespondInternal(ctx, "Could not log in")
		return
	}

	h.observeLogin("success")
	h.setRefreshCookie(ctx, result.RefreshToken)

	ctx.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	raw := h.refreshTokenFrom(ctx)

	if raw == "" {
		RespondUnAuthorized(ctx, "no_refresh", "Missing refresh token")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	result, err := h.refresh.Refresh(cctx, raw)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			RespondUnAuthorized(ctx, "invalid_refresh", "Invalid refresh token")
			return
		}

		RespondInternal(ctx, "Could not refresh session")
		return
	}

	// the old refresh token is not revoked; it simply ages out
	h.setRefreshCookie(ctx, result.RefreshToken)

	ctx.JSON(http.StatusOK, result)
}

// Logout is purely a transport action: tokens are stateless, so there is
// nothing to revoke server-side. Clearing the cookie is all "logout" means.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearRefreshCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

// Validate is for external gateways performing access checks. It always
// answers 200; the verdict lives in the body.
func (h *AuthHandler) Validate(ctx *gin.Context) {
	var req ValidateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	ctx.JSON(http.StatusOK, h.validator.ValidateToken(req.Token))
}

// Me echoes the identity established by the auth middleware. Mostly useful
// as a smoke check for clients wiring up Bearer auth.
func (h *AuthHandler) Me(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)
	email, _ := middlewares.EmailFromContext(ctx)

	ctx.JSON(http.StatusOK, gin.H{"userId": userID, "email": email})
}

// Helper functions

func (h *AuthHandler) observeLogin(result string) {
	if h.prom != nil {
		h.prom.ObserveLogin(result)
	}
}

func (h *AuthHandler) refreshTokenFrom(ctx *gin.Context) string {
	if raw, err := ctx.Cookie(h.refreshCookieName()); err == nil && raw != "" {
		return raw
	}

	// non-browser clients send it in the body instead
	var req RefreshRequest

	if err := ctx.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}

	return ""
}

func (h *AuthHandler) refreshCookieName() string {
	return "refresh_token"
}

func (h *AuthHandler) setRefreshCookie(ctx *gin.Context, raw string) {
	secure := h.cfg.Env == "prod"

	maxAge := int(h.cfg.JWTRefreshTTL.Seconds())

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		h.refreshCookieName(),
		raw,
		maxAge,
		"/auth",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearRefreshCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		h.refreshCookieName(),
		"",

		-1,
		"/auth",
		"",
		secure,
		true,
	)
}
