package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// Authenticate resolves the bearer token to the calling user and stores it
// on the request context. Every rejection is a 401 with a Bearer challenge.
func Authenticate(resolver service.IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				observability.RecordAccessTokenValidation(r.Context(), "missing", "header")
				Unauthorized(w, r, service.ErrUnauthenticated.Error())
				return
			}
			user, err := resolver.ResolveCurrentIdentity(r.Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					observability.RecordAccessTokenValidation(r.Context(), "rejected", "header")
					Unauthorized(w, r, service.ErrUnauthenticated.Error())
					return
				}
				observability.RecordAccessTokenValidation(r.Context(), "error", "header")
				slog.ErrorContext(r.Context(), "resolve identity failed", "error", err)
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
				return
			}
			observability.RecordAccessTokenValidation(r.Context(), "accepted", "header")
			noteUser(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user)))
		})
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, IdentityContextKey, user)
}

func IdentityFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(IdentityContextKey).(*domain.User)
	return u, ok && u != nil
}
