package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

// Auth resolves the bearer token into a user and stores it in the context.
// Requests without a token continue as anonymous, so public routes (displays,
// catalog, tracker reads) stay open while RequireRoles guards the rest.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, models.AnonymousUser())))
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}

		user, err := h.auth.RoleCheck(ctx, token)
		if err != nil || user == nil {
			h.log.Warn(wrap.ErrorCtx(ctx, err), "rejected bearer token", "error", fmt.Sprint(err))
			unauthorized(w, "invalid credentials")
			return
		}

		ctx = wrap.WithDriverID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, user)))
	})
}

// RequireRoles wraps a handler and allows only users with one of the given roles.
func (h *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.UserRole) http.Handler {
	allowed := make(map[types.UserRole]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := models.UserFromContext(r.Context())
		if user == nil || user.IsAnonymous() {
			unauthorized(w, "authorization required")
			return
		}
		if _, ok := allowed[types.UserRole(user.Role)]; len(allowed) > 0 && !ok {
			h.log.Warn(r.Context(), "role not allowed on route", "role", user.Role, "route", r.Pattern)
			reject(w, http.StatusForbidden, "forbidden: insufficient role")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractBearerToken returns the token of an "Authorization: Bearer <token>" header.
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid Authorization header format")
	}
	return parts[1], nil
}
