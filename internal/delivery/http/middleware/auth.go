package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/domain"
)

type contextKey string

const staffClaimsKey contextKey = "staffClaims"

// SetStaffClaims returns a context carrying the authenticated staff claims. Used by auth middleware.
func SetStaffClaims(ctx context.Context, claims *domain.StaffClaims) context.Context {
	return context.WithValue(ctx, staffClaimsKey, claims)
}

// StaffClaimsFromContext returns the authenticated staff claims from the context, if present.
func StaffClaimsFromContext(ctx context.Context) (*domain.StaffClaims, bool) {
	claims, ok := ctx.Value(staffClaimsKey).(*domain.StaffClaims)
	return claims, ok && claims != nil
}

// CanActFor reports whether the staff session in ctx belongs to organizationID.
func CanActFor(ctx context.Context, organizationID string) bool {
	claims, ok := StaffClaimsFromContext(ctx)
	return ok && claims.OrganizationID == organizationID
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the staff claims in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if claims.Role != domain.StaffRole {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "staff access required")
				return
			}
			r = r.WithContext(SetStaffClaims(r.Context(), claims))
			next(w, r)
		}
	}
}
