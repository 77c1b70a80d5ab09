package interfaces

import (
	"context"
	"time"

	"lia_agent/internal/domain/entities"
)

// IQueueRepository abstracts persistence for the inbound message queue.
//
// The storage must provide:
//   - idempotent insert keyed on (tenant, conversation, message id)
//   - atomic lease claims: of all concurrent claimers of one entry,
//     exactly one wins before the lock expires
//   - status bookkeeping for done / retry / terminal error

type IQueueRepository interface {
	// Insert stores the entry; created=false means the key already
	// existed (duplicate webhook delivery) and nothing changed.
	Insert(ctx context.Context, e entities.QueueEntry) (created bool, err error)

	// ClaimNext atomically takes the oldest claimable entry, stamping
	// worker/lease. Returns nil when nothing is claimable.
	ClaimNext(ctx context.Context, workerID string, lease time.Duration) (*entities.QueueEntry, error)

	// ClaimConversationPending claims every claimable entry of one
	// conversation, oldest first, for debounce coalescing. Claimable
	// means pending, or processing with an expired lease, so a batch
	// interrupted mid-turn is rebuilt whole instead of sibling by
	// sibling.
	ClaimConversationPending(ctx context.Context, tenantID, conversationID, workerID string, lease time.Duration) ([]entities.QueueEntry, error)

	// MarkDone releases a claimed entry as processed.
	MarkDone(ctx context.Context, e entities.QueueEntry) error

	// ResetPending returns a claimed entry to the queue after a failed
	// attempt, recording the attempt and error.
	ResetPending(ctx context.Context, e entities.QueueEntry, lastError string) error

	// MarkError parks the entry terminally for operator review.
	MarkError(ctx context.Context, e entities.QueueEntry, lastError string) error
}
