package model

// Source identifies where a submission record came from.
type Source string

const (
	SourceRemote Source = "remote" // Assigned by the intake service.
	SourceLocal  Source = "local"  // Synthesized client-side by the offline fallback.
)

// LockState describes whether the admin table currently shows authenticated,
// authoritative data.
type LockState int

const (
	LockStateLocked LockState = iota
	LockStateUnlocked
)

// String returns a human-readable name for the lock state.
func (s LockState) String() string {
	switch s {
	case LockStateLocked:
		return "locked"
	case LockStateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// FailureKind classifies why a call to the applications service did not
// succeed.
type FailureKind string

const (
	FailureNone           FailureKind = ""
	FailureValidation     FailureKind = "validation"
	FailureUnauthorized   FailureKind = "unauthorized"
	FailureForbidden      FailureKind = "forbidden"
	FailureNotConfigured  FailureKind = "not_configured"
	FailureUnreachable    FailureKind = "unreachable"
	FailureEndpointAbsent FailureKind = "endpoint_absent"
	FailureClientError    FailureKind = "client_error"
	FailureInternal       FailureKind = "internal"
)

// FallbackEligible reports whether a failure of this kind may be masked with
// locally cached data. Authentication failures never are.
func (k FailureKind) FallbackEligible() bool {
	switch k {
	case FailureNotConfigured, FailureUnreachable, FailureEndpointAbsent:
		return true
	default:
		return false
	}
}

// IsAuthFailure reports whether the failure means the credential was missing
// or wrong.
func (k FailureKind) IsAuthFailure() bool {
	return k == FailureUnauthorized || k == FailureForbidden
}
