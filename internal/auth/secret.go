// Package auth guards mutating endpoints with the shared secret and issues
// panel session cookies.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoSecret is returned when neither a plaintext secret nor a bcrypt hash
// is configured. The server refuses to start without one.
var ErrNoSecret = errors.New("no secret configured: set auth.secret or auth.secret_hash")

// Verifier checks candidate secrets against the configured value.
// The secret is static: no expiry, no rotation.
type Verifier struct {
	secret []byte
	hash   []byte
}

// NewVerifier builds a Verifier from a plaintext secret or a bcrypt hash.
// When both are set the hash wins, so the plaintext can be removed from the
// config after hashing.
func NewVerifier(secret, bcryptHash string) (*Verifier, error) {
	if secret == "" && bcryptHash == "" {
		return nil, ErrNoSecret
	}
	v := &Verifier{}
	if bcryptHash != "" {
		// Validate the hash shape early rather than on first request.
		if err := bcrypt.CompareHashAndPassword([]byte(bcryptHash), []byte("probe")); err != nil &&
			!errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errors.New("auth.secret_hash is not a valid bcrypt hash")
		}
		v.hash = []byte(bcryptHash)
		return v, nil
	}
	v.secret = []byte(secret)
	return v, nil
}

// Verify reports whether candidate matches the configured secret.
func (v *Verifier) Verify(candidate string) bool {
	if candidate == "" {
		return false
	}
	if v.hash != nil {
		return bcrypt.CompareHashAndPassword(v.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(v.secret, []byte(candidate)) == 1
}
