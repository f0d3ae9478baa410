package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
)

var errBadAuthHeader = errors.New("invalid Authorization header format")

// Auth resolves the bearer token into a user. Requests without the header
// continue as the anonymous user; RequireAuth guards protected routes.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, models.AnonymousUser)))
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := m.auth.Authenticate(ctx, token)
		if err != nil || user == nil {
			m.log.Warn(wrap.WithAction(ctx, "authenticate"), "rejected bearer token", "error", errString(err))
			errorResponse(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx = wrap.WithUserID(ctx, user.ID.String())
		next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, user)))
	})
}

// RequireAuth rejects anonymous requests.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if models.UserFromContext(r.Context()).IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errBadAuthHeader
	}
	return strings.TrimSpace(token), nil
}

func errString(err error) string {
	if err == nil {
		return "no user"
	}
	return err.Error()
}
