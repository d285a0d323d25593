package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/core/service"
)

const teamHeader = "X-Team-ID"

// RequestScope is the request-scoped identity: who is acting and in
// which tenant. Handlers read it once and pass both values explicitly
// into services; nothing re-reads it deeper in the stack.
type RequestScope struct {
	Principal domain.Principal
	TeamID    int64
}

type scopeKey struct{}

func scopeFrom(ctx context.Context) RequestScope {
	scope, _ := ctx.Value(scopeKey{}).(RequestScope)
	return scope
}

// Authenticate verifies the bearer credential and stores the principal
// in the request scope.
func Authenticate(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, domain.ErrUnauthenticated)
				return
			}
			principal, err := auth.Verify(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}
			scope := RequestScope{Principal: *principal}
			ctx := context.WithValue(r.Context(), scopeKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveTenant resolves the active team from the X-Team-ID hint or the
// principal's default membership and completes the request scope. Runs
// after Authenticate.
func ResolveTenant(tenants *service.TenantService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := scopeFrom(r.Context())
			teamID, err := tenants.Resolve(r.Context(), scope.Principal, r.Header.Get(teamHeader))
			if err != nil {
				writeError(w, err)
				return
			}
			scope.TeamID = teamID
			ctx := context.WithValue(r.Context(), scopeKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
