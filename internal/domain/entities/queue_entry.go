package entities

import "time"

// QueueStatus is the processing lifecycle of an inbound message.

type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusDone       QueueStatus = "done"
	QueueStatusError      QueueStatus = "error"
)

// QueueEntry is one inbound message awaiting dispatch to the FSM.
//
// Idempotency: the entry key is (tenant, conversation, message id), so a
// webhook redelivery inserts nothing.
//
// Leasing: a worker that claims an entry stamps LockOwner/LockExpiresAt.
// A crashed worker's entry becomes reclaimable once the lock expires,
// giving at-least-once delivery.

type QueueEntry struct {
	TenantID       string      `json:"tenant_id"`
	ConversationID string      `json:"conversation_id"`
	MessageID      string      `json:"message_id"`
	Payload        string      `json:"payload"`
	Status         QueueStatus `json:"status"`
	Priority       int         `json:"priority"`
	Attempts       int         `json:"attempts"`
	MaxAttempts    int         `json:"max_attempts"`
	LockOwner      string      `json:"lock_owner,omitempty"`
	LockExpiresAt  time.Time   `json:"lock_expires_at,omitzero"`
	LastError      string      `json:"last_error,omitempty"`
	EnqueuedAt     time.Time   `json:"enqueued_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Key is the unique identity of the entry inside its tenant.
func (e QueueEntry) Key() string {
	return e.TenantID + "#" + e.ConversationID + "#" + e.MessageID
}

// LockExpired reports whether the current lease, if any, has lapsed.
func (e QueueEntry) LockExpired(now time.Time) bool {
	return e.LockExpiresAt.IsZero() || !e.LockExpiresAt.After(now)
}

// Claimable reports whether a worker may take the entry right now.
func (e QueueEntry) Claimable(now time.Time) bool {
	switch e.Status {
	case QueueStatusPending:
		return true
	case QueueStatusProcessing:
		return e.LockExpired(now)
	default:
		return false
	}
}
