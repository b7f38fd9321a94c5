package driven

import "errors"

// Sentinel errors returned by admin credential checks.
var (
	// ErrCredentialMissing indicates no admin credential was supplied.
	ErrCredentialMissing = errors.New("administrator password required")

	// ErrCredentialInvalid indicates the supplied admin credential is wrong.
	ErrCredentialInvalid = errors.New("incorrect password")
)

// CredentialVerifier checks a candidate admin credential against the
// configured secret. Verify returns ErrCredentialMissing for an empty
// candidate and ErrCredentialInvalid for a mismatch.
type CredentialVerifier interface {
	Verify(candidate string) error
}
