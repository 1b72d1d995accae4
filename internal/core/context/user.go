// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated API client information.
type UserContext struct {
	Subject string
	Scopes  []string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetSubject returns the authenticated subject from context or empty string.
func GetSubject(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.Subject
	}
	return ""
}

// HasScope checks if the authenticated client carries a scope.
func HasScope(ctx context.Context, scope string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, s := range u.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
