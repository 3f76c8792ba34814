// Package requestctx carries authenticated request attributes through context.
package requestctx

import "context"

type callerIDContextKey struct{}

type localeContextKey struct{}

// WithCallerID stores the authenticated caller account in context.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerIDContextKey{}, callerID)
}

// CallerIDFromContext returns the authenticated caller account stored in context.
func CallerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(callerIDContextKey{}).(string)
	return value
}

// WithLocale stores the caller's preferred locale in context.
func WithLocale(ctx context.Context, locale string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// LocaleFromContext returns the preferred locale stored in context.
func LocaleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(localeContextKey{}).(string)
	return value
}
