package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/goureshmadye/tripbuddy/internal/auth"
	"github.com/goureshmadye/tripbuddy/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// TierKey is the context key for storing the authenticated user's plan tier.
	TierKey contextKey = "tier"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetTier extracts the plan tier from the context, defaulting to free.
func GetTier(ctx context.Context) models.PlanTier {
	tier, _ := ctx.Value(TierKey).(models.PlanTier)
	if !tier.Valid() {
		return models.TierFree
	}
	return tier
}

// RequireAuth wraps a handler with JWT validation. It extracts the
// bearer token from the Authorization header, validates it, and adds
// the user ID and plan tier to the request context.
func RequireAuth(jwtManager *auth.JWTManager, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, TierKey, models.PlanTier(claims.Tier))
		next(w, r.WithContext(ctx), ps)
	}
}
