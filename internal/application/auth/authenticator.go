// Package auth resolves opaque bearer tokens to owner identifiers.
// Token issuance and cryptographic verification belong to the external
// auth collaborator; this package only maps already-issued tokens to
// the stable owner ID every discovery query is scoped by.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tasklens/server/internal/domain"
)

// Authenticator maps static API tokens to owner identifiers.
type Authenticator struct {
	owners map[string]string // token -> owner ID
}

// NewAuthenticator creates an authenticator over a token-to-owner map.
func NewAuthenticator(owners map[string]string) *Authenticator {
	return &Authenticator{owners: owners}
}

// ParseKeys parses the TASKLENS_API_KEYS format: comma-separated
// "token:owner-uuid" pairs.
func ParseKeys(s string) (map[string]string, error) {
	owners := make(map[string]string)
	if s == "" {
		return owners, nil
	}

	for _, pair := range strings.Split(s, ",") {
		token, ownerID, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || token == "" {
			return nil, fmt.Errorf("invalid API key entry %q, expected token:owner-uuid", pair)
		}
		if _, err := uuid.Parse(ownerID); err != nil {
			return nil, fmt.Errorf("invalid owner ID in API key entry %q: %w", pair, err)
		}
		owners[token] = ownerID
	}

	return owners, nil
}

// ResolveOwner returns the owner identifier for a token, or
// domain.ErrUnauthorized for an unknown one. Comparison is
// constant-time per stored token so lookup timing does not leak
// token prefixes.
func (a *Authenticator) ResolveOwner(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty token", domain.ErrUnauthorized)
	}

	ownerID := ""
	for stored, owner := range a.owners {
		if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1 {
			ownerID = owner
		}
	}
	if ownerID == "" {
		return "", fmt.Errorf("%w: unknown token", domain.ErrUnauthorized)
	}

	return ownerID, nil
}
