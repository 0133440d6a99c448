package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/staydesk/staydesk/pkg/auth"
	"github.com/staydesk/staydesk/pkg/logger"
	"github.com/staydesk/staydesk/pkg/response"
)

type userKey struct{}

// Authenticate requires a valid "Authorization: Bearer <jwt>" header and
// stores the acting user's id in the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.WithCtx(r.Context()).Debug("rejected token", "error", err)
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := WithUserID(r.Context(), claims.UserID)
		if log := logger.WithCtx(ctx); log != logger.L {
			ctx = logger.InjectLogger(ctx, log.With("user_id", claims.UserID))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserIDFromCtx returns the authenticated user id set by Authenticate.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userKey{}).(uint)
	return id, ok && id != 0
}
