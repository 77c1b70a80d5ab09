package interfaces

import (
	"context"

	"lia_agent/internal/domain/entities"
)

// ISessionRepository abstracts persistence for conversation sessions.
//
// The active session is keyed on (tenant, conversation), which enforces
// the at-most-one-active invariant at the storage layer.

type ISessionRepository interface {
	// GetActive returns the active session for the pair, or a zero-ID
	// session when there is none.
	GetActive(ctx context.Context, tenantID, conversationID string) (entities.Session, error)

	// CreateActive inserts a new active session. Fails when the pair
	// already has one.
	CreateActive(ctx context.Context, s entities.Session) (entities.Session, error)

	// Save overwrites the session record.
	Save(ctx context.Context, s entities.Session) error

	// Archive copies a closed session out of the active slot so the
	// conversation can start over.
	Archive(ctx context.Context, s entities.Session) error
}
