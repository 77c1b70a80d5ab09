package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidTenantID       = errors.New("invalid tenant id")
	ErrInvalidConversationID = errors.New("invalid conversation id")
	ErrInvalidMessageID      = errors.New("invalid message id")
	ErrEmptyPayload          = errors.New("empty payload")
)

// TurnFunc processes one coalesced turn of conversation text. messageIDs
// are the coalesced entries in arrival order; text is their payloads
// joined the same way.

type TurnFunc func(ctx context.Context, tenantID, conversationID string, messageIDs []string, text string) error

// IIntakeUseCase exposes the inbound message queue operations.
//
//   - Enqueue: idempotent insert from the webhook boundary
//   - ProcessNext: claim + debounce-coalesce + dispatch one turn
//   - RunWorkers: the worker pool loop

type IIntakeUseCase interface {
	Enqueue(ctx context.Context, tenantID, conversationID, messageID, payload string) error
	ProcessNext(ctx context.Context, workerID string, handle TurnFunc) (bool, error)
	RunWorkers(ctx context.Context, handle TurnFunc) error
}

// IntakeOptions tunes queue behavior; zero values fall back to defaults.

type IntakeOptions struct {
	DebounceWindow time.Duration
	LockDuration   time.Duration
	MaxAttempts    int
	WorkerCount    int
	ClaimInterval  time.Duration
}

func (o IntakeOptions) withDefaults() IntakeOptions {
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 3 * time.Second
	}
	if o.LockDuration <= 0 {
		o.LockDuration = 30 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.WorkerCount <= 0 {
		o.WorkerCount = 4
	}
	if o.ClaimInterval <= 0 {
		o.ClaimInterval = 500 * time.Millisecond
	}
	return o
}

type IntakeUseCase struct {
	repo interfaces.IQueueRepository
	opts IntakeOptions
	log  *zap.Logger
}

var _ IIntakeUseCase = (*IntakeUseCase)(nil)

func NewIntakeUseCase(repo interfaces.IQueueRepository, opts IntakeOptions, log *zap.Logger) *IntakeUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &IntakeUseCase{repo: repo, opts: opts.withDefaults(), log: log}
}

// Enqueue inserts one inbound message. A redelivery of the same
// (tenant, conversation, message id) is a no-op, not an error.
func (u *IntakeUseCase) Enqueue(ctx context.Context, tenantID, conversationID, messageID, payload string) error {
	tenantID = strings.TrimSpace(tenantID)
	conversationID = strings.TrimSpace(conversationID)
	messageID = strings.TrimSpace(messageID)
	if tenantID == "" {
		return ErrInvalidTenantID
	}
	if conversationID == "" {
		return ErrInvalidConversationID
	}
	if messageID == "" {
		return ErrInvalidMessageID
	}
	if strings.TrimSpace(payload) == "" {
		return ErrEmptyPayload
	}

	now := time.Now().UTC()
	created, err := u.repo.Insert(ctx, entities.QueueEntry{
		TenantID:       tenantID,
		ConversationID: conversationID,
		MessageID:      messageID,
		Payload:        payload,
		Status:         entities.QueueStatusPending,
		MaxAttempts:    u.opts.MaxAttempts,
		EnqueuedAt:     now,
		UpdatedAt:      now,
	})
	if err != nil {
		return err
	}
	if !created {
		u.log.Debug("queue_duplicate_delivery",
			zap.String("tenant", tenantID),
			zap.String("conversation", conversationID),
			zap.String("message_id", messageID),
		)
	}
	return nil
}

// ProcessNext claims the oldest claimable entry, waits out the remaining
// debounce window, pulls in any newer pending messages of the same
// conversation, and dispatches the coalesced turn. Returns false when
// nothing was claimable.
//
// Delivery is at-least-once: if this worker dies mid-turn the lease
// expires and another worker re-claims, so handle must be idempotent per
// message id (the session tracks the last applied one).
func (u *IntakeUseCase) ProcessNext(ctx context.Context, workerID string, handle TurnFunc) (bool, error) {
	entry, err := u.repo.ClaimNext(ctx, workerID, u.opts.LockDuration)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}

	batch := []entities.QueueEntry{*entry}

	// Let the tail of a burst arrive before dispatching one turn.
	if remaining := u.opts.DebounceWindow - time.Since(entry.EnqueuedAt); remaining > 0 {
		select {
		case <-ctx.Done():
			// Put the entry back untouched; the lease would expire
			// anyway, this is just faster.
			_ = u.repo.ResetPending(context.WithoutCancel(ctx), *entry, "")
			return false, ctx.Err()
		case <-time.After(remaining):
		}
	}

	newer, err := u.repo.ClaimConversationPending(ctx, entry.TenantID, entry.ConversationID, workerID, u.opts.LockDuration)
	if err != nil {
		u.log.Warn("queue_coalesce_claim_failed", zap.Error(err))
	} else {
		batch = append(batch, newer...)
	}
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].EnqueuedAt.Before(batch[j].EnqueuedAt)
	})

	messageIDs := make([]string, len(batch))
	payloads := make([]string, len(batch))
	for i, e := range batch {
		messageIDs[i] = e.MessageID
		payloads[i] = e.Payload
	}
	text := strings.Join(payloads, "\n")

	u.log.Info("queue_turn_dispatch",
		zap.String("tenant", entry.TenantID),
		zap.String("conversation", entry.ConversationID),
		zap.Int("coalesced", len(batch)),
	)

	if err := handle(ctx, entry.TenantID, entry.ConversationID, messageIDs, text); err != nil {
		for _, e := range batch {
			u.fail(ctx, e, err)
		}
		return true, err
	}

	for _, e := range batch {
		if err := u.repo.MarkDone(ctx, e); err != nil {
			u.log.Error("queue_mark_done_failed", zap.String("key", e.Key()), zap.Error(err))
		}
	}
	return true, nil
}

// fail retries the entry until MaxAttempts, then parks it terminally.
// The session stays active either way, so a fresh message from the client
// re-triggers processing.
func (u *IntakeUseCase) fail(ctx context.Context, e entities.QueueEntry, cause error) {
	e.Attempts++
	if e.Attempts < e.MaxAttempts {
		if err := u.repo.ResetPending(ctx, e, cause.Error()); err != nil {
			u.log.Error("queue_reset_failed", zap.String("key", e.Key()), zap.Error(err))
		}
		return
	}
	u.log.Error("queue_entry_exhausted",
		zap.String("key", e.Key()),
		zap.Int("attempts", e.Attempts),
		zap.Error(cause),
	)
	if err := u.repo.MarkError(ctx, e, cause.Error()); err != nil {
		u.log.Error("queue_mark_error_failed", zap.String("key", e.Key()), zap.Error(err))
	}
}

// RunWorkers runs the configured number of pull workers until the context
// is cancelled. Workers share no in-process state; everything cross-turn
// lives in the persisted records.
func (u *IntakeUseCase) RunWorkers(ctx context.Context, handle TurnFunc) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < u.opts.WorkerCount; i++ {
		workerID := uuid.NewString()
		g.Go(func() error {
			for {
				processed, err := u.ProcessNext(ctx, workerID, handle)
				if ctx.Err() != nil {
					return nil
				}
				if err != nil {
					u.log.Warn("worker_turn_failed", zap.String("worker", workerID), zap.Error(err))
				}
				if !processed {
					select {
					case <-ctx.Done():
						return nil
					case <-time.After(u.opts.ClaimInterval):
					}
				}
			}
		})
	}
	return g.Wait()
}
