package tenant

import (
	"context"
	"errors"
)

// contextKey is a private type for context keys to prevent collisions
type contextKey string

const (
	companyIDKey   contextKey = "company_id"
	companyCNPJKey contextKey = "company_cnpj"
	sessionIDKey   contextKey = "session_id"
)

var (
	// ErrNoCompanyInContext is returned when company context is missing
	ErrNoCompanyInContext = errors.New("no company in context")
)

// WithCompanyContext adds the authenticated company identity to the context.
// This should be called by middleware after extracting claims from the JWT.
func WithCompanyContext(ctx context.Context, id, cnpj, sessionID string) context.Context {
	ctx = context.WithValue(ctx, companyIDKey, id)
	ctx = context.WithValue(ctx, companyCNPJKey, cnpj)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return ctx
}

// WithCompanyID adds only the company ID to the context
func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

// CompanyID extracts the company ID from the context.
// Returns ErrNoCompanyInContext if not found. The company ID doubles as
// the tenant ID for row-level security.
func CompanyID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(companyIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoCompanyInContext
	}
	return id, nil
}

// CompanyCNPJ extracts the company CNPJ from the context
func CompanyCNPJ(ctx context.Context) (string, error) {
	cnpj, ok := ctx.Value(companyCNPJKey).(string)
	if !ok || cnpj == "" {
		return "", ErrNoCompanyInContext
	}
	return cnpj, nil
}

// SessionID extracts the session ID from the context
func SessionID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(sessionIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoCompanyInContext
	}
	return id, nil
}

// MustCompanyID extracts the company ID from context and panics if not found.
// Use only in cases where a missing company is a programming error.
func MustCompanyID(ctx context.Context) string {
	id, err := CompanyID(ctx)
	if err != nil {
		panic("company ID not found in context")
	}
	return id
}
