package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Rrens/coworking-reservation/internal/api/response"
	"github.com/Rrens/coworking-reservation/internal/config"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/Rrens/coworking-reservation/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	cookie      config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cookie config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if !decodeAndValidate(w, r, &input) {
		return
	}

	_, session, err := h.authService.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.BadRequest(w, "Email is already registered")
			return
		}
		log.Error().Err(err).Msg("register failed")
		response.BadRequest(w, nil)
		return
	}

	h.sendToken(w, session)
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if !decodeAndValidate(w, r, &input) {
		return
	}

	session, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid credentials")
			return
		}
		log.Error().Err(err).Msg("login failed")
		response.InternalError(w, nil)
		return
	}

	h.sendToken(w, session)
}

func (h *AuthHandler) sendToken(w http.ResponseWriter, session *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	response.Token(w, http.StatusOK, session.Token)
}

// Logout revokes the current token and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), identity); err != nil {
		log.Warn().Err(err).Msg("token revocation failed")
	}

	h.clearCookie(w)
	response.Empty(w)
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
	})
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Me(r.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Unauthorized(w, "Not authorize to access this route")
			return
		}
		response.InternalError(w, nil)
		return
	}

	response.OK(w, user)
}

// ListUsers returns every account
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list users failed")
		response.InternalError(w, nil)
		return
	}

	response.List(w, users, len(users), nil)
}

// DeleteMe removes the caller's account and reservations
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.authService.DeleteMe(r.Context(), identity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("delete account failed")
		response.InternalError(w, nil)
		return
	}

	h.clearCookie(w)
	response.Empty(w)
}
