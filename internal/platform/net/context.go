// Package net carries request scoped ids between transports and handlers
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyDeliveryID ctxKey = "delivery_id"

// GitHub webhook headers
const (
	DeliveryHeader = "X-GitHub-Delivery"
	EventHeader    = "X-GitHub-Event"
)

// WithRequest annotates context with the request id and the webhook delivery id
func WithRequest(ctx context.Context, reqID, deliveryID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if deliveryID != "" {
		ctx = context.WithValue(ctx, keyDeliveryID, deliveryID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// DeliveryID returns the webhook delivery id on the context if present
func DeliveryID(ctx context.Context) string {
	if v, ok := ctx.Value(keyDeliveryID).(string); ok {
		return v
	}
	return ""
}
