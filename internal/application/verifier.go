package application

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialVerifier = (*PasswordVerifier)(nil)

// PasswordVerifier checks the shared admin password. It holds either a
// plaintext secret, compared in constant time, or a bcrypt hash.
type PasswordVerifier struct {
	plaintext []byte
	hash      []byte
}

// NewPasswordVerifier creates a verifier. When hash is non-empty it takes
// precedence over plaintext. At least one must be set.
func NewPasswordVerifier(plaintext, hash string) (*PasswordVerifier, error) {
	hash = strings.TrimSpace(hash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, errors.New("admin password hash is not a valid bcrypt hash")
		}
		return &PasswordVerifier{hash: []byte(hash)}, nil
	}
	if plaintext == "" {
		return nil, errors.New("admin password is not configured")
	}
	return &PasswordVerifier{plaintext: []byte(plaintext)}, nil
}

// Verify implements driven.CredentialVerifier.
func (v *PasswordVerifier) Verify(candidate string) error {
	if candidate == "" {
		return driven.ErrCredentialMissing
	}

	if v.hash != nil {
		if err := bcrypt.CompareHashAndPassword(v.hash, []byte(candidate)); err != nil {
			return driven.ErrCredentialInvalid
		}
		return nil
	}

	if subtle.ConstantTimeCompare(v.plaintext, []byte(candidate)) != 1 {
		return driven.ErrCredentialInvalid
	}
	return nil
}
