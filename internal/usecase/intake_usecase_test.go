package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lia_agent/internal/domain/entities"
	mock_interfaces "lia_agent/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestIntakeEnqueue_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)

	cases := []struct {
		name                                   string
		tenant, conversation, message, payload string
		want                                   error
	}{
		{"missing tenant", "", "c1", "m1", "oi", ErrInvalidTenantID},
		{"missing conversation", "t1", "  ", "m1", "oi", ErrInvalidConversationID},
		{"missing message id", "t1", "c1", "", "oi", ErrInvalidMessageID},
		{"blank payload", "t1", "c1", "m1", "   ", ErrEmptyPayload},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.Enqueue(context.Background(), tc.tenant, tc.conversation, tc.message, tc.payload)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIntakeEnqueue_InsertsPendingEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e entities.QueueEntry) (bool, error) {
			if e.Key() != "t1#c1#m1" {
				t.Fatalf("unexpected key %q", e.Key())
			}
			if e.Status != entities.QueueStatusPending {
				t.Fatalf("expected pending status, got %q", e.Status)
			}
			if e.MaxAttempts != 3 {
				t.Fatalf("expected default max attempts 3, got %d", e.MaxAttempts)
			}
			if e.EnqueuedAt.IsZero() {
				t.Fatal("enqueued_at not stamped")
			}
			return true, nil
		})

	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)
	if err := uc.Enqueue(context.Background(), " t1 ", "c1", "m1", "1 x salada"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIntakeEnqueue_RedeliveryIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(false, nil)

	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)
	if err := uc.Enqueue(context.Background(), "t1", "c1", "m1", "oi"); err != nil {
		t.Fatalf("duplicate delivery must not error, got %v", err)
	}
}

func TestIntakeEnqueue_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("dynamo down")
	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(false, boom)

	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)
	if err := uc.Enqueue(context.Background(), "t1", "c1", "m1", "oi"); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestProcessNext_NothingClaimable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().ClaimNext(gomock.Any(), "w1", gomock.Any()).Return(nil, nil)

	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)
	processed, err := uc.ProcessNext(context.Background(), "w1", func(context.Context, string, string, []string, string) error {
		t.Fatal("handle must not run without a claim")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed {
		t.Fatal("expected processed=false")
	}
}

func TestProcessNext_CoalescesBurstInArrivalOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Now().UTC().Add(-time.Minute) // debounce already elapsed
	entry := func(id, payload string, offset time.Duration) entities.QueueEntry {
		return entities.QueueEntry{
			TenantID:       "t1",
			ConversationID: "c1",
			MessageID:      id,
			Payload:        payload,
			Status:         entities.QueueStatusProcessing,
			MaxAttempts:    3,
			EnqueuedAt:     base.Add(offset),
		}
	}
	first := entry("m1", "quero 2 x salada", 0)
	second := entry("m2", "sem cebola", time.Second)
	third := entry("m3", "e 1 coca lata", 2*time.Second)

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().ClaimNext(gomock.Any(), "w1", gomock.Any()).Return(&first, nil)
	// Returned out of order on purpose; dispatch must sort by enqueue time.
	repo.EXPECT().
		ClaimConversationPending(gomock.Any(), "t1", "c1", "w1", gomock.Any()).
		Return([]entities.QueueEntry{third, second}, nil)
	repo.EXPECT().MarkDone(gomock.Any(), gomock.Any()).Times(3).Return(nil)

	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)
	var gotIDs []string
	var gotText string
	processed, err := uc.ProcessNext(context.Background(), "w1", func(_ context.Context, tenantID, conversationID string, messageIDs []string, text string) error {
		if tenantID != "t1" || conversationID != "c1" {
			t.Fatalf("wrong conversation: %s/%s", tenantID, conversationID)
		}
		gotIDs = messageIDs
		gotText = text
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !processed {
		t.Fatal("expected processed=true")
	}
	if strings.Join(gotIDs, ",") != "m1,m2,m3" {
		t.Fatalf("wrong coalesce order: %v", gotIDs)
	}
	want := "quero 2 x salada\nsem cebola\ne 1 coca lata"
	if gotText != want {
		t.Fatalf("wrong coalesced text:\n%q\nwant\n%q", gotText, want)
	}
}

func TestProcessNext_FailedTurnGoesBackToPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	claimed := entities.QueueEntry{
		TenantID:       "t1",
		ConversationID: "c1",
		MessageID:      "m1",
		Payload:        "oi",
		Attempts:       0,
		MaxAttempts:    3,
		EnqueuedAt:     time.Now().UTC().Add(-time.Minute),
	}
	turnErr := errors.New("session store unavailable")

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().ClaimNext(gomock.Any(), "w1", gomock.Any()).Return(&claimed, nil)
	repo.EXPECT().ClaimConversationPending(gomock.Any(), "t1", "c1", "w1", gomock.Any()).Return(nil, nil)
	repo.EXPECT().
		ResetPending(gomock.Any(), gomock.Any(), turnErr.Error()).
		DoAndReturn(func(_ context.Context, e entities.QueueEntry, _ string) error {
			if e.Attempts != 1 {
				t.Fatalf("expected attempt recorded, got %d", e.Attempts)
			}
			return nil
		})

	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)
	processed, err := uc.ProcessNext(context.Background(), "w1", func(context.Context, string, string, []string, string) error {
		return turnErr
	})
	if !processed {
		t.Fatal("a claimed entry counts as processed even on failure")
	}
	if !errors.Is(err, turnErr) {
		t.Fatalf("expected turn error, got %v", err)
	}
}

func TestProcessNext_ExhaustedEntryIsParked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	claimed := entities.QueueEntry{
		TenantID:       "t1",
		ConversationID: "c1",
		MessageID:      "m1",
		Payload:        "oi",
		Attempts:       2, // last allowed attempt
		MaxAttempts:    3,
		EnqueuedAt:     time.Now().UTC().Add(-time.Minute),
	}
	turnErr := errors.New("still broken")

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().ClaimNext(gomock.Any(), "w1", gomock.Any()).Return(&claimed, nil)
	repo.EXPECT().ClaimConversationPending(gomock.Any(), "t1", "c1", "w1", gomock.Any()).Return(nil, nil)
	repo.EXPECT().MarkError(gomock.Any(), gomock.Any(), turnErr.Error()).Return(nil)

	uc := NewIntakeUseCase(repo, IntakeOptions{}, nil)
	if _, err := uc.ProcessNext(context.Background(), "w1", func(context.Context, string, string, []string, string) error {
		return turnErr
	}); !errors.Is(err, turnErr) {
		t.Fatalf("expected turn error, got %v", err)
	}
}

func TestProcessNext_CancelledDuringDebounceReleasesEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	claimed := entities.QueueEntry{
		TenantID:       "t1",
		ConversationID: "c1",
		MessageID:      "m1",
		Payload:        "oi",
		MaxAttempts:    3,
		EnqueuedAt:     time.Now().UTC(), // debounce window still open
	}

	repo := mock_interfaces.NewMockIQueueRepository(ctrl)
	repo.EXPECT().ClaimNext(gomock.Any(), "w1", gomock.Any()).Return(&claimed, nil)
	repo.EXPECT().ResetPending(gomock.Any(), gomock.Any(), "").Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewIntakeUseCase(repo, IntakeOptions{DebounceWindow: time.Minute}, nil)
	processed, err := uc.ProcessNext(ctx, "w1", func(context.Context, string, string, []string, string) error {
		t.Fatal("handle must not run after cancellation")
		return nil
	})
	if processed {
		t.Fatal("expected processed=false")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
