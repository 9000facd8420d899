package jwt

import (
	"context"
	"net/http"
	"strings"

	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/tenant"
)

type adminIDKey struct{}
type adminEmailKey struct{}

// SessionVerifier checks that a company session is still active.
// Logout and backoffice blocking deactivate sessions server-side, so
// a valid signature alone is not enough.
type SessionVerifier interface {
	VerifySession(ctx context.Context, sessionID string) error
}

// CompanyAuth returns middleware that validates company tokens, checks
// the session is still active, and places the tenant context on the
// request.
func CompanyAuth(manager *Manager, sessions SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(manager, r)
			if err != nil {
				httputil.Error(w, err)
				return
			}

			if claims.Role != RoleCompany || claims.CompanyID == "" {
				httputil.Error(w, errors.Forbidden("company token required"))
				return
			}

			ctx := r.Context()
			if sessions != nil {
				if err := sessions.VerifySession(ctx, claims.SessionID); err != nil {
					httputil.Error(w, err)
					return
				}
			}

			ctx = tenant.WithCompanyContext(ctx, claims.CompanyID, claims.CNPJ, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth returns middleware that validates backoffice admin tokens
func AdminAuth(manager *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(manager, r)
			if err != nil {
				httputil.Error(w, err)
				return
			}

			if claims.Role != RoleAdmin || claims.AdminID == "" {
				httputil.Error(w, errors.Forbidden("admin token required"))
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey{}, claims.AdminID)
			ctx = context.WithValue(ctx, adminEmailKey{}, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(manager *Manager, r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.Unauthorized("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.Unauthorized("invalid authorization header")
	}

	return manager.ValidateToken(parts[1])
}

// AdminID returns the authenticated admin ID from the context
func AdminID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDKey{}).(string)
	return id, ok
}

// AdminEmail returns the authenticated admin email from the context
func AdminEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(adminEmailKey{}).(string)
	return email, ok
}
