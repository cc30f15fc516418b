package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atf-io/voicehub-sub001/internal/auth"
	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/tenancy"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller placed in request context. Password
// sessions and identity-provider tokens both resolve to this shape.
type Identity struct {
	UserID   string
	Email    string
	Provider string
}

// IdentityFromContext returns the authenticated identity if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// Authenticate guards API routes. A Bearer token is validated against the
// external identity provider; otherwise the session cookie is resolved
// against the session store. Unauthenticated requests get 401.
func Authenticate(service *auth.Service, idp IdentityProviderConfig, cookieName string) func(http.Handler) http.Handler {
	idpMW := identityProviderValidator(idp)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				claims, err := idpMW(strings.TrimPrefix(header, "Bearer "))
				if err != nil {
					respond.Error(w, http.StatusUnauthorized, "invalid token")
					return
				}
				user, err := service.EnsureExternalUser(r.Context(), claims.Subject, claims.Email, claims.Name)
				if err != nil {
					respond.Error(w, http.StatusUnauthorized, "identity provisioning failed")
					return
				}
				serveAs(next, w, r, user.ID, user.Email, user.Provider)
				return
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			user, err := service.CurrentUser(r.Context(), cookie.Value)
			if err != nil || user == nil {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			serveAs(next, w, r, user.ID, user.Email, user.Provider)
		})
	}
}

func serveAs(next http.Handler, w http.ResponseWriter, r *http.Request, userID, email, provider string) {
	ctx := context.WithValue(r.Context(), identityKey, Identity{
		UserID:   userID,
		Email:    email,
		Provider: provider,
	})
	ctx = tenancy.WithAccountID(ctx, userID)
	next.ServeHTTP(w, r.WithContext(ctx))
}
