package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/pkg/auth"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// Identity is what the identity provider vouches for. Roles are not part of
// it; services look them up in the user directory.
type Identity struct {
	ID    string
	Email string
}

// RequireSession rejects requests without a valid access token.
func RequireSession(secret string) func(http.Handler) http.Handler {
	return session(secret, true)
}

// OptionalSession attaches the identity when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalSession(secret string) func(http.Handler) http.Handler {
	return session(secret, false)
}

func session(secret string, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				if required {
					response.Unauthorized(w, "authentication required")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseAccess(raw, secret)
			if err != nil {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				if errors.Is(err, jwt.ErrTokenExpired) {
					response.WriteError(w, http.StatusUnauthorized, "session expired", response.CodeInvalidToken)
					return
				}
				response.WriteError(w, http.StatusUnauthorized, "invalid session", response.CodeInvalidToken)
				return
			}

			setLogUser(r, claims.UserID())
			ctx := context.WithValue(r.Context(), ctxIdentity, Identity{ID: claims.UserID(), Email: claims.Email})
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(Identity)
	return id, ok
}

// WithIdentity is used by tests and internal callers that already trust the
// identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}
