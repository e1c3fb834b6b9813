package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/coreos/go-oidc/v3/oidc"

	"ms-bakery/internal/models"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// Middleware verifies bearer tokens against the configured OIDC issuer and
// injects the authenticated admin (id + role) into the request context.
func Middleware(cache *ClaimsCache) func(http.Handler) http.Handler {
	issuer := os.Getenv("OIDC_ISSUER") // e.g. http://auth.emilybakes.local:8080/realms/bakery
	if issuer == "" {
		panic("OIDC_ISSUER env var not set")
	}

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		panic(fmt.Sprintf("Failed to create OIDC provider: %v", err))
	}

	// Verifier (SkipClientIDCheck → no client ID required)
	verifier := provider.Verifier(&oidc.Config{
		SkipClientIDCheck: true,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			// Cache hit skips the signature check for recently-seen tokens
			if cache != nil {
				if user, ok := cache.Get(r.Context(), rawToken); ok {
					next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
					return
				}
			}

			if _, err := verifier.Verify(r.Context(), rawToken); err != nil {
				http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			user, err := ExtractUserFromJWT(rawToken)
			if err != nil {
				http.Error(w, "failed to parse claims", http.StatusUnauthorized)
				return
			}

			if cache != nil {
				_ = cache.Set(r.Context(), rawToken, user)
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RequireRole gates a route to the given roles. Owner and admin always pass.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{
		models.RoleOwner: true,
		models.RoleAdmin: true,
	}
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if !allowed[user.Role] {
				http.Error(w, fmt.Sprintf("role %s is not allowed to access this resource", user.Role), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withUser(ctx context.Context, user models.CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// UserFromContext returns the authenticated admin, if any.
func UserFromContext(ctx context.Context) (models.CurrentUser, bool) {
	user, ok := ctx.Value(currentUserKey).(models.CurrentUser)
	return user, ok
}

// ContextWithUser is exposed for tests and internal wiring.
func ContextWithUser(ctx context.Context, user models.CurrentUser) context.Context {
	return withUser(ctx, user)
}
