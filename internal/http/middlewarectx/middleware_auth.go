package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/roadsterhq/rental-marketplace/internal/http/response"
	"github.com/roadsterhq/rental-marketplace/internal/lib/jwt"
)

// SessionCookie is the cookie the login handler sets for the page flow.
const SessionCookie = "session_token"

// Service validates a session token and returns its claims.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func authenticate(authService Service, r *http.Request) (Identity, bool) {
	tokenStr := tokenFromRequest(r)
	if tokenStr == "" {
		return Identity{}, false
	}
	claims, err := authService.ValidateToken(r.Context(), tokenStr)
	if err != nil {
		return Identity{}, false
	}
	return Identity{
		UserUID: claims.UserUID,
		Name:    claims.Name,
		Email:   claims.Email,
		Role:    claims.Role,
	}, true
}

// JWTMiddleware authenticates API requests from the Authorization header or
// the session cookie. Missing or invalid tokens get 401 with a JSON error.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			identity, ok := authenticate(authService, r)
			if !ok {
				log.Error("missing or invalid session token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid session token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// SessionRedirectMiddleware authenticates page-flow requests. Instead of a
// 401 it redirects to the login page, carrying the intended destination so
// the flow resumes after sign-in.
func SessionRedirectMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.SessionRedirectMiddleware"

			identity, ok := authenticate(authService, r)
			if !ok {
				log.Info("unauthenticated page request, redirecting to login",
					slog.String("op", op),
					slog.String("path", r.URL.Path))
				callback := r.URL.RequestURI()
				http.Redirect(w, r, "/login?callbackUrl="+url.QueryEscape(callback), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole rejects authenticated callers whose role differs from role.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if identity.Role != role {
				log.Warn("forbidden", slog.String("role", identity.Role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
