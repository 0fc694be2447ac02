package app

import (
	"context"
	"errors"
)

type contextKey struct{}

// ErrNoApp is returned when a command runs without an initialized App
var ErrNoApp = errors.New("application not initialized")

// FromContext returns the App stored by WithApp
func FromContext(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(contextKey{}).(*App)
	if !ok || a == nil {
		return nil, ErrNoApp
	}
	return a, nil
}

// WithApp stores the App in ctx
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}
