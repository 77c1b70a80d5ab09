package usecase

import (
	"context"
	"strings"
	"testing"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/domain/fsm"
	"lia_agent/internal/interpreter"
	"lia_agent/internal/usecase/interfaces"
	mock_interfaces "lia_agent/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type turnMocks struct {
	sessions  *mock_interfaces.MockISessionRepository
	catalog   *mock_interfaces.MockICatalogIndex
	messenger *mock_interfaces.MockIMessenger
	submitter *mock_interfaces.MockIOrderSubmitter
	complex   *mock_interfaces.MockIComplexIntentHandler
}

func newTurnUseCaseForTest(ctrl *gomock.Controller) (*TurnUseCase, turnMocks) {
	m := turnMocks{
		sessions:  mock_interfaces.NewMockISessionRepository(ctrl),
		catalog:   mock_interfaces.NewMockICatalogIndex(ctrl),
		messenger: mock_interfaces.NewMockIMessenger(ctrl),
		submitter: mock_interfaces.NewMockIOrderSubmitter(ctrl),
		complex:   mock_interfaces.NewMockIComplexIntentHandler(ctrl),
	}
	return NewTurnUseCase(m.sessions, m.catalog, m.messenger, m.submitter, m.complex, nil), m
}

func turnTestMenu() []entities.MenuItem {
	item := func(code, parent, name string, price float64, kind entities.MenuItemType) entities.MenuItem {
		return entities.MenuItem{
			PDVCode:     code,
			ParentCode:  parent,
			Name:        name,
			Price:       price,
			Type:        kind,
			Fingerprint: interpreter.Fingerprint(name),
			Available:   true,
		}
	}
	return []entities.MenuItem{
		item("P1", "", "X Salada", 20, entities.MenuItemTypeProduct),
		item("P3", "", "Coca Cola Lata", 6, entities.MenuItemTypeProduct),
		item("A1", "P1", "Adicionais no Prato Bacon", 4, entities.MenuItemTypeAddition),
	}
}

func activeSession(state fsm.State) entities.Session {
	return entities.Session{
		ID:             "s1",
		TenantID:       "t1",
		ConversationID: "c1",
		Status:         entities.SessionStatusActive,
		State:          string(state),
	}
}

func TestProcessTurn_RedeliveredTurnSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	session := activeSession(fsm.StateCollectingItems)
	session.LastMessageID = "m9"
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(session, nil)
	// No save, no reply: the turn was already applied.

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m9"}, "oi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProcessTurn_RedeliveredBatchMemberNotReapplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	session := activeSession(fsm.StateConfirmingItems)
	session.Cart.AddItem(entities.CartItem{PDVCode: "P1", Name: "X Salada", Quantity: 2, UnitPrice: 20})
	session.LastMessageID = "m3"
	session.MarkApplied("m1", "m2", "m3")
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(session, nil)
	// No interpreter run, no save, no reply: the message belongs to a
	// coalesced turn that was already applied, even though it is not the
	// newest id of that turn.

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m1"}, "2 x salada"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProcessTurn_OpensSessionOnFirstContact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(entities.Session{}, nil)
	m.sessions.EXPECT().
		CreateActive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) (entities.Session, error) {
			if s.ID == "" {
				t.Fatal("new session must get an id")
			}
			if s.State != string(fsm.StateGreeting) {
				t.Fatalf("new session must start at greeting, got %s", s.State)
			}
			if s.Status != entities.SessionStatusActive {
				t.Fatalf("new session must be active, got %s", s.Status)
			}
			return s, nil
		})

	var saved entities.Session
	m.sessions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			saved = s
			return nil
		})
	m.messenger.EXPECT().Send(gomock.Any(), "t1", "c1", fsm.Prompt(fsm.StateGreeting)).Return(nil)

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m1"}, "boa noite"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.LastMessageID != "m1" {
		t.Fatalf("turn not recorded, last message %q", saved.LastMessageID)
	}
	if saved.MessageCount != 1 {
		t.Fatalf("expected message count 1, got %d", saved.MessageCount)
	}
}

func TestProcessTurn_CancelShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(activeSession(fsm.StateCollectingPayment), nil)

	var archived entities.Session
	m.sessions.EXPECT().
		Archive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			archived = s
			return nil
		})
	m.messenger.EXPECT().Send(gomock.Any(), "t1", "c1", fsm.Prompt(fsm.StateCancelled)).Return(nil)

	// No catalog, POS or LLM calls on a cancel.
	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m2"}, "cancelar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archived.State != string(fsm.StateCancelled) {
		t.Fatalf("expected cancelled state, got %s", archived.State)
	}
	if archived.Status != entities.SessionStatusAbandoned {
		t.Fatalf("expected abandoned status, got %s", archived.Status)
	}
	if archived.ClosedAt == nil {
		t.Fatal("closed_at not stamped")
	}
}

func TestProcessTurn_ItemTurnShowsConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(activeSession(fsm.StateGreeting), nil)
	m.catalog.EXPECT().SearchIndex(gomock.Any(), "t1").Return(turnTestMenu(), nil)

	var saved entities.Session
	m.sessions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			saved = s
			return nil
		})
	var reply string
	m.messenger.EXPECT().
		Send(gomock.Any(), "t1", "c1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			reply = text
			return nil
		})

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m2"}, "1 x salada com bacon"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.State != string(fsm.StateConfirmingItems) {
		t.Fatalf("expected confirming items, got %s", saved.State)
	}
	if len(saved.Cart.Items) != 1 || saved.Cart.Items[0].PDVCode != "P1" {
		t.Fatalf("cart not populated: %+v", saved.Cart.Items)
	}
	if len(saved.Cart.Items[0].Modifiers) != 1 || saved.Cart.Items[0].Modifiers[0].PDVCode != "A1" {
		t.Fatalf("bacon modifier missing: %+v", saved.Cart.Items[0].Modifiers)
	}
	if !strings.Contains(reply, "Seu Pedido") {
		t.Fatalf("reply missing cart summary: %q", reply)
	}
}

func TestProcessTurn_UnknownItemOpensPendency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(activeSession(fsm.StateGreeting), nil)
	m.catalog.EXPECT().SearchIndex(gomock.Any(), "t1").Return(turnTestMenu(), nil)

	var saved entities.Session
	m.sessions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			saved = s
			return nil
		})
	var reply string
	m.messenger.EXPECT().
		Send(gomock.Any(), "t1", "c1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			reply = text
			return nil
		})

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m2"}, "1 pastel de flango"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.State != string(fsm.StateResolvingPending) {
		t.Fatalf("expected resolving pending, got %s", saved.State)
	}
	if len(saved.Cart.Pendencies) != 1 {
		t.Fatalf("expected one pendency, got %d", len(saved.Cart.Pendencies))
	}
	if saved.Scratch.Resolving == nil {
		t.Fatal("resolving scratch not set")
	}
	if !strings.Contains(reply, "Não encontrei") {
		t.Fatalf("reply is not a clarification question: %q", reply)
	}
}

func TestProcessTurn_ConfirmSubmitsOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	session := activeSession(fsm.StateConfirmingOrder)
	session.Cart.AddItem(entities.CartItem{PDVCode: "P1", Name: "X Salada", Quantity: 1, UnitPrice: 20})
	session.Collected.DeliveryType = entities.DeliveryTypePickup
	session.Collected.Payment = &entities.PaymentDetails{Method: entities.PaymentCartaoCredito}
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(session, nil)
	m.submitter.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).Return("POS-123", nil)

	var archived entities.Session
	m.sessions.EXPECT().
		Archive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			archived = s
			return nil
		})
	var reply string
	m.messenger.EXPECT().
		Send(gomock.Any(), "t1", "c1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			reply = text
			return nil
		})

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m5"}, "sim"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archived.State != string(fsm.StateOrderSent) {
		t.Fatalf("expected order sent, got %s", archived.State)
	}
	if archived.Status != entities.SessionStatusCompleted {
		t.Fatalf("expected completed status, got %s", archived.Status)
	}
	if archived.POSOrderID != "POS-123" {
		t.Fatalf("pos order id not recorded: %q", archived.POSOrderID)
	}
	if !strings.Contains(reply, "POS-123") {
		t.Fatalf("reply missing order number: %q", reply)
	}
}

func TestProcessTurn_POSFailureKeepsSessionOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	session := activeSession(fsm.StateConfirmingOrder)
	session.Cart.AddItem(entities.CartItem{PDVCode: "P1", Name: "X Salada", Quantity: 1, UnitPrice: 20})
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(session, nil)
	m.submitter.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).Return("", interfaces.ErrCollaboratorUnavailable)

	var saved entities.Session
	m.sessions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			saved = s
			return nil
		})
	var reply string
	m.messenger.EXPECT().
		Send(gomock.Any(), "t1", "c1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			reply = text
			return nil
		})

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m5"}, "sim"); err != nil {
		t.Fatalf("a rejected submission must not fail the turn: %v", err)
	}
	if saved.State != string(fsm.StateConfirmingOrder) {
		t.Fatalf("session must stay in confirmation, got %s", saved.State)
	}
	if saved.POSOrderError == "" {
		t.Fatal("submission error not recorded")
	}
	if !strings.Contains(reply, "instabilidade") {
		t.Fatalf("expected degraded reply, got %q", reply)
	}
}

func TestProcessTurn_ComplexFallbackDegradesWhenLLMDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(activeSession(fsm.StateCollectingDeliveryType), nil)
	m.complex.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req interfaces.ComplexIntentRequest) (interfaces.ComplexIntentAction, error) {
			if req.State != string(fsm.StateCollectingDeliveryType) {
				t.Fatalf("wrong state in request: %s", req.State)
			}
			if len(req.AllowedStates) == 0 {
				t.Fatal("allowed states not propagated")
			}
			return interfaces.ComplexIntentAction{}, interfaces.ErrCollaboratorUnavailable
		})

	var saved entities.Session
	m.sessions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			saved = s
			return nil
		})
	var reply string
	m.messenger.EXPECT().
		Send(gomock.Any(), "t1", "c1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			reply = text
			return nil
		})

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m3"}, "hmm sei la"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.State != string(fsm.StateCollectingDeliveryType) {
		t.Fatalf("state must not change on a degraded turn, got %s", saved.State)
	}
	if saved.LLMCallCount != 1 {
		t.Fatalf("expected one llm attempt, got %d", saved.LLMCallCount)
	}
	if !strings.Contains(reply, "Desculpe") {
		t.Fatalf("expected degraded re-prompt, got %q", reply)
	}
}

func TestProcessTurn_IllegalLLMTargetIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newTurnUseCaseForTest(ctrl)
	m.sessions.EXPECT().GetActive(gomock.Any(), "t1", "c1").Return(activeSession(fsm.StateCollectingDeliveryType), nil)
	m.complex.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(interfaces.ComplexIntentAction{
			TargetState: string(fsm.StateOrderSent), // not reachable from here
			Reply:       "Pedido enviado!",
		}, nil)

	var saved entities.Session
	m.sessions.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s entities.Session) error {
			saved = s
			return nil
		})
	m.messenger.EXPECT().Send(gomock.Any(), "t1", "c1", "Pedido enviado!").Return(nil)

	if err := uc.ProcessTurn(context.Background(), "t1", "c1", []string{"m3"}, "hmm sei la"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.State != string(fsm.StateCollectingDeliveryType) {
		t.Fatalf("illegal target must not be applied, got %s", saved.State)
	}
}
