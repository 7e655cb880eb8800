package auth

import "context"

type contextKey string

const ownerIDKey contextKey = "ownerID"

// ContextWithOwnerID returns a new context carrying the authenticated
// owner identifier.
func ContextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// OwnerIDFromContext retrieves the authenticated owner identifier from
// the context, if any.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	if !ok || ownerID == "" {
		return "", false
	}
	return ownerID, true
}
