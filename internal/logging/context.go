package logging

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey contextKey = "requestId"
	clientIDKey  contextKey = "clientId"
)

// WithRequestID tags ctx with the ID of the HTTP request that started the work
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithClientID tags ctx with the authenticated client
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// ClientID returns the client ID stored in ctx, if any
func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}

// ContextFields returns the request and client IDs in ctx as zap fields
func ContextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := ClientID(ctx); id != "" {
		fields = append(fields, zap.String("client_id", id))
	}
	return fields
}
