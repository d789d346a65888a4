package auth

import (
	"crypto/subtle"
	"errors"
)

var (
	ErrMissingCredential = errors.New("missing api key")
	ErrInvalidCredential = errors.New("invalid api key")
)

// Guard checks callers against one shared static secret
type Guard struct {
	secret []byte
}

// NewGuard creates a guard for the configured secret
func NewGuard(secret string) *Guard {
	return &Guard{secret: []byte(secret)}
}

// Authenticate accepts only an exact match of the configured secret
func (g *Guard) Authenticate(credential string) error {
	if credential == "" {
		return ErrMissingCredential
	}
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(credential), g.secret) != 1 {
		return ErrInvalidCredential
	}
	return nil
}
