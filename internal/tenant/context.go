package tenant

import (
	"context"
	"errors"
)

type contextKey string

const (
	clientIDKey  contextKey = "clientID"
	userIDKey    contextKey = "userID"
	requestIDKey contextKey = "requestID"
)

var (
	// ErrClientIDNotFound is returned when no tenant is bound to the context.
	ErrClientIDNotFound = errors.New("client ID not found in context")
	// ErrUserIDNotFound is returned when no authenticated user is bound to the context.
	ErrUserIDNotFound = errors.New("user ID not found in context")
	// ErrNoRequestIDInContext is returned when no request ID is bound to the context.
	ErrNoRequestIDInContext = errors.New("no request ID found in context")
)

// WithClientID binds the tenant id to ctx.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

// FromContext returns the tenant id bound to ctx.
func FromContext(ctx context.Context) (string, error) {
	clientID, ok := ctx.Value(clientIDKey).(string)
	if !ok || clientID == "" {
		return "", ErrClientIDNotFound
	}
	return clientID, nil
}

// MustFromContext returns the tenant id or panics.
func MustFromContext(ctx context.Context) string {
	clientID, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return clientID
}

// WithUserID binds the authenticated user id to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id bound to ctx.
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", ErrUserIDNotFound
	}
	return userID, nil
}

// WithRequestID binds a request id to ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id bound to ctx.
func RequestIDFromContext(ctx context.Context) (string, error) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "", ErrNoRequestIDInContext
	}
	return requestID, nil
}
