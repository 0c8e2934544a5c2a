package middleware

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/Rrens/coworking-reservation/internal/api/response"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/rs/zerolog/log"
)

type contextKey string

const identityKey contextKey = "identity"

const notAuthorizedMessage = "Not authorize to access this route"

// Authenticator resolves an access token into the caller's identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	auth       Authenticator
	cookieName string
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth Authenticator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, cookieName: cookieName}
}

// Authenticate validates the bearer token or token cookie
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			response.Unauthorized(w, notAuthorizedMessage)
			return
		}

		identity, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			log.Debug().Err(err).Msg("rejected token")
			response.Unauthorized(w, notAuthorizedMessage)
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "none" {
		return cookie.Value
	}
	return ""
}

// Authorize only lets callers with one of roles through.
// It must run after Authenticate.
func Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				response.Unauthorized(w, notAuthorizedMessage)
				return
			}
			if !slices.Contains(roles, identity.Role) {
				response.Forbidden(w, fmt.Sprintf("User role %s is not authorized to access this route", identity.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity stores the caller identity in ctx
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity gets the caller identity from context
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}
