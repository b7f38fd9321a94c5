package application

import (
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

// OverlayMessageKey selects the message shown over the admin table. It is a
// pure function of the lock state and the failure that produced it; an
// unlocked table has no overlay.
func OverlayMessageKey(state model.LockState, kind model.FailureKind, degraded bool) string {
	if state == model.LockStateUnlocked {
		return ""
	}
	if degraded {
		return i18n.KeyOverlayDegraded
	}

	switch kind {
	case model.FailureNone:
		return i18n.KeyOverlayLocked
	case model.FailureUnauthorized:
		return i18n.KeyPasswordRequired
	case model.FailureForbidden:
		return i18n.KeyPasswordIncorrect
	case model.FailureNotConfigured:
		return i18n.KeyOverlayNotConfig
	case model.FailureUnreachable, model.FailureEndpointAbsent:
		return i18n.KeyOverlayUnavail
	default:
		return i18n.KeyOverlayLoadFailed
	}
}

// authStatusKey returns the password-form status message for an auth failure.
func authStatusKey(kind model.FailureKind) string {
	if kind == model.FailureUnauthorized {
		return i18n.KeyPasswordRequired
	}
	return i18n.KeyPasswordIncorrect
}
