package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/domain/fsm"
	"lia_agent/internal/guardrails"
	"lia_agent/internal/interpreter"
	"lia_agent/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ITurnUseCase processes one coalesced turn of conversation text against
// the session's state machine.

type ITurnUseCase interface {
	ProcessTurn(ctx context.Context, tenantID, conversationID string, messageIDs []string, text string) error
}

type TurnUseCase struct {
	sessions  interfaces.ISessionRepository
	catalog   interfaces.ICatalogIndex
	messenger interfaces.IMessenger
	submitter interfaces.IOrderSubmitter
	complex   interfaces.IComplexIntentHandler
	log       *zap.Logger
	now       func() time.Time
}

var _ ITurnUseCase = (*TurnUseCase)(nil)

func NewTurnUseCase(
	sessions interfaces.ISessionRepository,
	catalog interfaces.ICatalogIndex,
	messenger interfaces.IMessenger,
	submitter interfaces.IOrderSubmitter,
	complex interfaces.IComplexIntentHandler,
	log *zap.Logger,
) *TurnUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &TurnUseCase{
		sessions:  sessions,
		catalog:   catalog,
		messenger: messenger,
		submitter: submitter,
		complex:   complex,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var (
	greetingOnlyRe = regexp.MustCompile(`^(oi+|ola|opa|e ai|eai|bom dia|boa tarde|boa noite|tudo bem\??)[!. ]*$`)
	moneyRe        = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)`)
)

// ProcessTurn loads (or opens) the session for the conversation, applies
// one turn of client text, persists the result and sends the reply.
//
// A turn is skipped when every one of its message ids was already applied,
// so at-least-once queue delivery never double-applies cart changes — not
// even when an older member of a coalesced batch comes back alone.
func (u *TurnUseCase) ProcessTurn(ctx context.Context, tenantID, conversationID string, messageIDs []string, text string) error {
	if len(messageIDs) == 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	newestID := messageIDs[len(messageIDs)-1]

	session, err := u.loadOrCreate(ctx, tenantID, conversationID)
	if err != nil {
		return err
	}
	if allApplied(session, messageIDs) {
		u.log.Info("turn_already_applied",
			zap.String("session", session.ID),
			zap.String("message_id", newestID),
		)
		return nil
	}

	intent, extracted := guardrails.Classify(text)

	var reply string
	if intent == guardrails.IntentCancel {
		// Cancel short-circuits every non-terminal state; no interpreter,
		// no LLM.
		u.transition(&session, fsm.StateCancelled, "client_cancel")
		reply = fsm.Prompt(fsm.StateCancelled)
	} else {
		reply, err = u.dispatch(ctx, &session, intent, extracted, text, newestID)
		if err != nil {
			return err
		}
	}

	now := u.now()
	session.LastMessageID = newestID
	session.MarkApplied(messageIDs...)
	session.MessageCount += len(messageIDs)
	session.Touch(now)

	if fsm.IsTerminal(fsm.State(session.State)) {
		if session.Status == entities.SessionStatusActive {
			status := entities.SessionStatusAbandoned
			if fsm.State(session.State) == fsm.StateOrderSent {
				status = entities.SessionStatusCompleted
			}
			session.Close(status, now)
		}
		if err := u.sessions.Archive(ctx, session); err != nil {
			return err
		}
	} else if err := u.sessions.Save(ctx, session); err != nil {
		return err
	}

	if reply != "" {
		if err := u.messenger.Send(ctx, tenantID, conversationID, reply); err != nil {
			// Reply delivery is best effort; state is already persisted.
			u.log.Warn("reply_send_failed",
				zap.String("session", session.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func allApplied(s entities.Session, messageIDs []string) bool {
	for _, id := range messageIDs {
		if !s.WasApplied(id) {
			return false
		}
	}
	return true
}

func (u *TurnUseCase) loadOrCreate(ctx context.Context, tenantID, conversationID string) (entities.Session, error) {
	session, err := u.sessions.GetActive(ctx, tenantID, conversationID)
	if err != nil {
		return entities.Session{}, err
	}
	if session.ID != "" {
		return session, nil
	}

	now := u.now()
	session = entities.Session{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		ConversationID: conversationID,
		Status:         entities.SessionStatusActive,
		State:          string(fsm.Initial()),
		StateEnteredAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
	created, err := u.sessions.CreateActive(ctx, session)
	if err != nil {
		return entities.Session{}, err
	}
	u.log.Info("session_opened",
		zap.String("session", created.ID),
		zap.String("tenant", tenantID),
		zap.String("conversation", conversationID),
	)
	return created, nil
}

// transition applies a state change through the legal table, clearing the
// per-state scratch. Returns false (state unchanged) on an illegal move.
func (u *TurnUseCase) transition(s *entities.Session, target fsm.State, reason string) bool {
	machine := fsm.NewMachine(fsm.State(s.State), u.log.With(zap.String("session", s.ID)))
	if err := machine.Transition(target, reason); err != nil {
		return false
	}
	s.State = string(machine.Current)
	s.StateEnteredAt = u.now()
	s.Scratch = entities.StateScratch{}
	return true
}

// dispatch routes one classified turn to the handler of the current state.
func (u *TurnUseCase) dispatch(ctx context.Context, s *entities.Session, intent guardrails.Intent, ex guardrails.Extracted, text, newestID string) (string, error) {
	state := fsm.State(s.State)

	switch intent {
	case guardrails.IntentHelp:
		return u.helpReply(state), nil
	case guardrails.IntentRepeat:
		if s.Scratch.Confirming != nil && s.Scratch.Confirming.LastSummary != "" {
			return s.Scratch.Confirming.LastSummary, nil
		}
		return fsm.Prompt(state), nil
	}

	switch state {
	case fsm.StateGreeting, fsm.StateCollectingItems:
		if intent == guardrails.IntentConfirm || intent == guardrails.IntentDeny {
			return fsm.Prompt(state), nil
		}
		if greetingOnlyRe.MatchString(interpreter.Normalize(text)) {
			return fsm.Prompt(fsm.StateGreeting), nil
		}
		return u.handleItemIntake(ctx, s, text)

	case fsm.StateConfirmingItems:
		return u.handleConfirmingItems(ctx, s, intent, text)

	case fsm.StateResolvingPending:
		return u.handleResolving(ctx, s, intent, ex, text)

	case fsm.StateCollectingDeliveryType:
		return u.handleDeliveryType(ctx, s, text)

	case fsm.StateCollectingAddress:
		return u.handleAddress(ctx, s, intent, ex, text)

	case fsm.StateConfirmingAddress:
		return u.handleConfirmingAddress(ctx, s, intent, text)

	case fsm.StateCollectingPayment:
		if intent == guardrails.IntentPaymentMethod {
			return u.applyPaymentMethod(s, ex.PaymentMethod), nil
		}
		return u.complexFallback(ctx, s, text)

	case fsm.StateCollectingPaymentDet:
		return u.handlePaymentDetails(ctx, s, intent, ex, text)

	case fsm.StateAwaitingPixProof:
		return u.handlePixProof(s, intent, newestID), nil

	case fsm.StateConfirmingOrder:
		return u.handleConfirmingOrder(ctx, s, intent, text)
	}

	// Terminal states never reach dispatch; archived sessions are replaced
	// by loadOrCreate.
	return fsm.Prompt(state), nil
}

// handleItemIntake runs the order interpreter over the turn text and
// folds the outcome into the cart.
func (u *TurnUseCase) handleItemIntake(ctx context.Context, s *entities.Session, text string) (string, error) {
	menu, err := u.catalog.SearchIndex(ctx, s.TenantID)
	if err != nil {
		return "", err
	}
	catalog := interpreter.NewCatalog(menu)
	result := interpreter.InterpretWithCatalog(text, catalog)

	if result.Empty() {
		return u.complexFallback(ctx, s, text)
	}

	for _, item := range result.Items {
		s.Cart.AddItem(item)
	}
	s.Cart.Pendencies = append(s.Cart.Pendencies, result.Pendencies...)

	u.log.Info("turn_interpreted",
		zap.String("session", s.ID),
		zap.Int("items", len(result.Items)),
		zap.Int("pendencies", len(result.Pendencies)),
		zap.Float64("confidence", result.Confidence),
	)

	if s.Cart.HasPendencies() {
		cur := fsm.State(s.State)
		if !fsm.CanTransition(cur, fsm.StateResolvingPending) {
			u.transition(s, fsm.StateCollectingItems, "items_received")
		}
		if fsm.State(s.State) != fsm.StateResolvingPending {
			u.transition(s, fsm.StateResolvingPending, "unmatched_lines")
		}
		s.Scratch.Resolving = &entities.ResolvingScratch{Pendencies: s.Cart.Pendencies}
		return u.pendencyQuestion(s.Cart.Pendencies[0], catalog.NameOf), nil
	}

	return u.showItemsConfirmation(s), nil
}

// showItemsConfirmation moves to CONFIRMING_ITEMS (through
// COLLECTING_ITEMS when needed) and renders the cart.
func (u *TurnUseCase) showItemsConfirmation(s *entities.Session) string {
	cur := fsm.State(s.State)
	if cur != fsm.StateConfirmingItems {
		if !fsm.CanTransition(cur, fsm.StateConfirmingItems) {
			u.transition(s, fsm.StateCollectingItems, "items_received")
		}
		u.transition(s, fsm.StateConfirmingItems, "items_resolved")
	}
	summary := s.Cart.Summary()
	s.Scratch.Confirming = &entities.ConfirmingScratch{LastSummary: summary}
	return summary + "\n\n" + fsm.Prompt(fsm.StateConfirmingItems)
}

func (u *TurnUseCase) handleConfirmingItems(ctx context.Context, s *entities.Session, intent guardrails.Intent, text string) (string, error) {
	switch intent {
	case guardrails.IntentConfirm:
		s.Collected.ItemsConfirmed = true
		u.transition(s, fsm.StateCollectingDeliveryType, "items_confirmed")
		return fsm.Prompt(fsm.StateCollectingDeliveryType), nil
	case guardrails.IntentDeny:
		u.transition(s, fsm.StateCollectingItems, "items_rejected")
		return "Sem problemas! Me diga o que você gostaria de mudar no pedido.", nil
	default:
		// "mais um x-salada" while confirming goes back through intake.
		return u.handleItemIntake(ctx, s, text)
	}
}

// handleResolving works through the pending lines one at a time, oldest
// first. The client can pick a numbered suggestion, type the item name, or
// give up on the line.
func (u *TurnUseCase) handleResolving(ctx context.Context, s *entities.Session, intent guardrails.Intent, ex guardrails.Extracted, text string) (string, error) {
	if !s.Cart.HasPendencies() {
		return u.showItemsConfirmation(s), nil
	}
	pending := s.Cart.Pendencies[0]

	menu, err := u.catalog.SearchIndex(ctx, s.TenantID)
	if err != nil {
		return "", err
	}
	catalog := interpreter.NewCatalog(menu)

	if intent == guardrails.IntentDeny {
		u.popPendency(s)
		return u.afterPendency(s, catalog, fmt.Sprintf("Ok, deixei %q de fora.", pending.OriginalText)), nil
	}

	chosen := u.resolveClarification(ctx, s.TenantID, pending, intent, ex, text, menu)
	if chosen == nil {
		// Maybe the client re-sent the whole line instead of answering.
		result := interpreter.InterpretWithCatalog(text, catalog)
		if len(result.Items) > 0 {
			u.popPendency(s)
			for _, item := range result.Items {
				s.Cart.AddItem(item)
			}
			return u.afterPendency(s, catalog, ""), nil
		}
		return u.pendencyQuestion(pending, catalog.NameOf), nil
	}

	u.popPendency(s)
	switch pending.Kind {
	case entities.PendencyProdutoNaoEncontrado:
		quantity := 1
		if q, err := strconv.Atoi(pending.Extra["quantidade"]); err == nil && q > 0 {
			quantity = q
		}
		s.Cart.AddItem(entities.CartItem{
			PDVCode:    chosen.PDVCode,
			Name:       chosen.Name,
			Quantity:   quantity,
			UnitPrice:  chosen.Price,
			SourceLine: pending.OriginalText,
		})
	case entities.PendencyAdicionalNaoEncontrado:
		u.reapplyLineWithAddition(s, catalog, pending, *chosen)
	}

	return u.afterPendency(s, catalog, ""), nil
}

// resolveClarification maps the client's answer to a menu entry: numbered
// suggestion choice, exact fingerprint, then fuzzy search scoped by the
// pendency kind (additions restricted to the base product's modifier set).
func (u *TurnUseCase) resolveClarification(ctx context.Context, tenantID string, pending entities.CartPendency, intent guardrails.Intent, ex guardrails.Extracted, text string, menu []entities.MenuItem) *entities.MenuItem {
	if intent == guardrails.IntentQuantity && ex.Quantity >= 1 && ex.Quantity <= len(pending.Suggestions) {
		if item := findByCode(menu, pending.Suggestions[ex.Quantity-1]); item != nil {
			return item
		}
	}

	if item, err := u.catalog.LookupByFingerprint(ctx, tenantID, interpreter.Fingerprint(text)); err == nil && item.PDVCode != "" {
		return &item
	}

	if pending.Kind == entities.PendencyAdicionalNaoEncontrado {
		if base := pending.Extra["produto_pdv"]; base != "" {
			mods, err := u.catalog.ModifiersOf(ctx, tenantID, base)
			if err == nil && len(mods) > 0 {
				if item := bestFuzzy(text, mods); item != nil {
					return item
				}
			}
		}
	}

	scope := "product"
	if pending.Kind == entities.PendencyAdicionalNaoEncontrado {
		scope = "addition"
	}
	candidates, err := u.catalog.SearchFuzzy(ctx, tenantID, text, scope)
	if err != nil || len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

// reapplyLineWithAddition re-runs the original order line with the
// unmatched addition phrase replaced by the clarified entry's name.
func (u *TurnUseCase) reapplyLineWithAddition(s *entities.Session, catalog *interpreter.Catalog, pending entities.CartPendency, chosen entities.MenuItem) {
	line := pending.Extra["linha"]
	label := catalog.NameOf(chosen.PDVCode)
	var fixed string
	if line != "" && strings.Contains(strings.ToLower(line), strings.ToLower(pending.OriginalText)) {
		fixed = replaceFold(line, pending.OriginalText, label)
	} else if base := pending.Extra["produto_base"]; base != "" {
		fixed = base + " com " + label
	} else {
		return
	}

	result := interpreter.InterpretWithCatalog(fixed, catalog)
	for _, item := range result.Items {
		s.Cart.AddItem(item)
	}
	s.Cart.Pendencies = append(s.Cart.Pendencies, result.Pendencies...)
}

func (u *TurnUseCase) popPendency(s *entities.Session) {
	if len(s.Cart.Pendencies) > 0 {
		s.Cart.Pendencies = s.Cart.Pendencies[1:]
	}
}

// afterPendency asks the next pending question or, when all lines are
// settled, shows the cart for confirmation.
func (u *TurnUseCase) afterPendency(s *entities.Session, catalog *interpreter.Catalog, prefix string) string {
	if s.Cart.HasPendencies() {
		s.Scratch.Resolving = &entities.ResolvingScratch{Pendencies: s.Cart.Pendencies}
		question := u.pendencyQuestion(s.Cart.Pendencies[0], catalog.NameOf)
		if prefix != "" {
			return prefix + "\n\n" + question
		}
		return question
	}
	if s.Cart.IsEmpty() {
		u.transition(s, fsm.StateCollectingItems, "pendencies_settled")
		reply := fsm.Prompt(fsm.StateCollectingItems)
		if prefix != "" {
			return prefix + "\n\n" + reply
		}
		return reply
	}
	reply := u.showItemsConfirmation(s)
	if prefix != "" {
		return prefix + "\n\n" + reply
	}
	return reply
}

func (u *TurnUseCase) pendencyQuestion(p entities.CartPendency, nameOf func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Não encontrei %q no cardápio.", p.OriginalText)
	if len(p.Suggestions) > 0 {
		b.WriteString(" Você quis dizer:\n")
		for i, code := range p.Suggestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, nameOf(code))
		}
		b.WriteString("Responda com o número ou o nome. Se não for nenhum, diga \"não\".")
	} else {
		b.WriteString(" Pode me dizer o nome como está no cardápio? Se preferir tirar esse item, diga \"não\".")
	}
	return b.String()
}

func (u *TurnUseCase) handleDeliveryType(ctx context.Context, s *entities.Session, text string) (string, error) {
	normalized := interpreter.Normalize(text)
	switch {
	case strings.Contains(normalized, "entrega") || strings.Contains(normalized, "delivery") || strings.Contains(normalized, "entregar"):
		s.Collected.DeliveryType = entities.DeliveryTypeDelivery
		u.transition(s, fsm.StateCollectingAddress, "delivery_chosen")
		return fsm.Prompt(fsm.StateCollectingAddress), nil
	case strings.Contains(normalized, "retira") || strings.Contains(normalized, "balcao") || strings.Contains(normalized, "buscar") || strings.Contains(normalized, "pegar"):
		s.Collected.DeliveryType = entities.DeliveryTypePickup
		u.transition(s, fsm.StateCollectingPayment, "pickup_chosen")
		return fsm.Prompt(fsm.StateCollectingPayment), nil
	}
	return u.complexFallback(ctx, s, text)
}

func (u *TurnUseCase) handleAddress(ctx context.Context, s *entities.Session, intent guardrails.Intent, ex guardrails.Extracted, text string) (string, error) {
	address := ex.Address
	if address == "" && intent == guardrails.IntentNeedsLLM && len(strings.Fields(text)) >= 3 {
		// Address heuristics miss informal descriptions; trust a longer
		// free-text answer in this state rather than burning an LLM call.
		address = strings.TrimSpace(text)
	}
	if address == "" {
		return u.complexFallback(ctx, s, text)
	}
	s.Collected.DeliveryAddress = &entities.DeliveryAddress{RawText: address}
	s.Collected.AddressConfirmed = false
	u.transition(s, fsm.StateConfirmingAddress, "address_received")
	return fmt.Sprintf("Confirma o endereço?\n%s", address), nil
}

func (u *TurnUseCase) handleConfirmingAddress(ctx context.Context, s *entities.Session, intent guardrails.Intent, text string) (string, error) {
	switch intent {
	case guardrails.IntentConfirm:
		s.Collected.AddressConfirmed = true
		u.transition(s, fsm.StateCollectingPayment, "address_confirmed")
		return fsm.Prompt(fsm.StateCollectingPayment), nil
	case guardrails.IntentDeny:
		s.Collected.DeliveryAddress = nil
		u.transition(s, fsm.StateCollectingAddress, "address_rejected")
		return fsm.Prompt(fsm.StateCollectingAddress), nil
	}
	return u.complexFallback(ctx, s, text)
}

// applyPaymentMethod records the method and advances according to what it
// still needs: cash asks about change, pix waits for the proof, card goes
// straight to the final confirmation.
func (u *TurnUseCase) applyPaymentMethod(s *entities.Session, method string) string {
	if s.Collected.Payment == nil {
		s.Collected.Payment = &entities.PaymentDetails{}
	}
	s.Collected.Payment.Method = entities.PaymentMethod(method)

	switch entities.PaymentMethod(method) {
	case entities.PaymentCartao:
		return "Vai ser crédito ou débito?"
	case entities.PaymentPix:
		if fsm.State(s.State) != fsm.StateCollectingPaymentDet {
			u.transition(s, fsm.StateCollectingPaymentDet, "payment_method")
		}
		u.transition(s, fsm.StateAwaitingPixProof, "pix_selected")
		return "Pagamento via PIX. Pode enviar o comprovante por aqui assim que fizer a transferência."
	case entities.PaymentDinheiro:
		if fsm.State(s.State) != fsm.StateCollectingPaymentDet {
			u.transition(s, fsm.StateCollectingPaymentDet, "payment_method")
		}
		s.Scratch.PaymentDetails = &entities.PaymentDetailsScratch{AwaitingChangeFor: true}
		return fsm.Prompt(fsm.StateCollectingPaymentDet)
	case entities.PaymentCartaoCredito, entities.PaymentCartaoDebito:
		u.transition(s, fsm.StateConfirmingOrder, "card_selected")
		return u.showOrderConfirmation(s)
	}
	return fsm.Prompt(fsm.State(s.State))
}

func (u *TurnUseCase) handlePaymentDetails(ctx context.Context, s *entities.Session, intent guardrails.Intent, ex guardrails.Extracted, text string) (string, error) {
	if intent == guardrails.IntentPaymentMethod {
		// Client changed their mind mid-details.
		return u.applyPaymentMethod(s, ex.PaymentMethod), nil
	}
	if s.Collected.Payment == nil {
		u.transition(s, fsm.StateCollectingPayment, "missing_method")
		return fsm.Prompt(fsm.StateCollectingPayment), nil
	}

	switch intent {
	case guardrails.IntentDeny:
		s.Collected.Payment.NeedsChange = false
		u.transition(s, fsm.StateConfirmingOrder, "no_change_needed")
		return u.showOrderConfirmation(s), nil
	case guardrails.IntentConfirm:
		s.Scratch.PaymentDetails = &entities.PaymentDetailsScratch{AwaitingChangeFor: true}
		return "Troco para quanto?", nil
	}

	if value, ok := parseMoney(text); ok {
		s.Collected.Payment.NeedsChange = true
		s.Collected.Payment.ChangeFor = value
		u.transition(s, fsm.StateConfirmingOrder, "change_recorded")
		return u.showOrderConfirmation(s), nil
	}
	return u.complexFallback(ctx, s, text)
}

func (u *TurnUseCase) handlePixProof(s *entities.Session, intent guardrails.Intent, newestID string) string {
	if intent == guardrails.IntentDeny {
		u.transition(s, fsm.StateCollectingPayment, "pix_abandoned")
		return "Sem problemas. " + fsm.Prompt(fsm.StateCollectingPayment)
	}
	if s.Collected.Payment == nil {
		s.Collected.Payment = &entities.PaymentDetails{Method: entities.PaymentPix}
	}
	// Any inbound content in this state is taken as the proof; validation
	// is manual on the operator side.
	s.Collected.Payment.PixProofReceived = true
	s.Collected.Payment.PixProofReference = newestID
	u.transition(s, fsm.StateConfirmingOrder, "pix_proof_received")
	return u.showOrderConfirmation(s)
}

func (u *TurnUseCase) handleConfirmingOrder(ctx context.Context, s *entities.Session, intent guardrails.Intent, text string) (string, error) {
	switch intent {
	case guardrails.IntentConfirm:
		s.Collected.OrderConfirmed = true
		posOrderID, err := u.submitter.SubmitOrder(ctx, *s)
		if err != nil {
			// Rejection is recorded on the session and does not reopen
			// item collection; the client can try confirming again.
			s.POSOrderError = err.Error()
			u.log.Error("pos_submit_failed", zap.String("session", s.ID), zap.Error(err))
			if errors.Is(err, interfaces.ErrCollaboratorUnavailable) {
				return "Estamos com instabilidade para enviar o pedido agora. Pode tentar confirmar de novo em instantes?", nil
			}
			return "Não consegui enviar seu pedido para a cozinha. Pode confirmar de novo, por favor?", nil
		}
		s.POSOrderID = posOrderID
		s.POSOrderError = ""
		u.transition(s, fsm.StateOrderSent, "order_submitted")
		return fmt.Sprintf("Pedido enviado! 🎉 Número do pedido: %s. Obrigado!", posOrderID), nil
	case guardrails.IntentDeny:
		s.Collected.OrderConfirmed = false
		s.Collected.ItemsConfirmed = false
		u.transition(s, fsm.StateCollectingItems, "order_rejected")
		return "Sem problemas! Me diga o que você gostaria de alterar.", nil
	}
	return u.complexFallback(ctx, s, text)
}

// complexFallback hands an unclassifiable turn to the LLM collaborator.
// Its proposed target state is re-validated against the legal table; when
// the collaborator is down the turn degrades to a re-prompt.
func (u *TurnUseCase) complexFallback(ctx context.Context, s *entities.Session, text string) (string, error) {
	state := fsm.State(s.State)
	s.LLMCallCount++

	action, err := u.complex.Resolve(ctx, interfaces.ComplexIntentRequest{
		TenantID:       s.TenantID,
		ConversationID: s.ConversationID,
		State:          s.State,
		AllowedStates:  stateNames(fsm.AllowedTransitions(state)),
		CartSummary:    s.Cart.Summary(),
		Text:           text,
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrCollaboratorUnavailable) {
			u.log.Warn("complex_intent_degraded", zap.String("session", s.ID), zap.Error(err))
			return "Desculpe, não entendi. " + fsm.Prompt(state), nil
		}
		return "", err
	}

	if action.DeliveryType != "" {
		s.Collected.DeliveryType = entities.DeliveryType(action.DeliveryType)
	}
	if action.AddressText != "" {
		s.Collected.DeliveryAddress = &entities.DeliveryAddress{RawText: action.AddressText}
	}
	if action.PaymentMethod != "" {
		if s.Collected.Payment == nil {
			s.Collected.Payment = &entities.PaymentDetails{}
		}
		s.Collected.Payment.Method = entities.PaymentMethod(action.PaymentMethod)
	}
	if action.ChangeFor > 0 && s.Collected.Payment != nil {
		s.Collected.Payment.NeedsChange = true
		s.Collected.Payment.ChangeFor = action.ChangeFor
	}

	if action.TargetState != "" {
		target := fsm.State(action.TargetState)
		if !u.transition(s, target, "complex_intent") {
			u.log.Warn("complex_intent_illegal_target",
				zap.String("session", s.ID),
				zap.String("from", s.State),
				zap.String("target", action.TargetState),
			)
		}
	}

	if action.Reply != "" {
		return action.Reply, nil
	}
	return fsm.Prompt(fsm.State(s.State)), nil
}

// showOrderConfirmation moves into CONFIRMING_ORDER when not already there
// and renders the full order: cart, delivery and payment.
func (u *TurnUseCase) showOrderConfirmation(s *entities.Session) string {
	if fsm.State(s.State) != fsm.StateConfirmingOrder {
		u.transition(s, fsm.StateConfirmingOrder, "details_complete")
	}

	var b strings.Builder
	b.WriteString(s.Cart.Summary())
	b.WriteString("\n")
	switch s.Collected.DeliveryType {
	case entities.DeliveryTypeDelivery:
		b.WriteString("\nEntrega")
		if s.Collected.DeliveryAddress != nil {
			b.WriteString(": " + s.Collected.DeliveryAddress.RawText)
		}
		if s.Collected.DeliveryFee > 0 {
			fmt.Fprintf(&b, "\nTaxa de entrega: R$ %.2f", s.Collected.DeliveryFee)
		}
	case entities.DeliveryTypePickup:
		b.WriteString("\nRetirada no balcão")
	}
	if p := s.Collected.Payment; p != nil {
		b.WriteString("\nPagamento: " + paymentLabel(p.Method))
		if p.NeedsChange {
			fmt.Fprintf(&b, " (troco para R$ %.2f)", p.ChangeFor)
		}
	}
	fmt.Fprintf(&b, "\n*Total: R$ %.2f*", s.Cart.Subtotal()+s.Collected.DeliveryFee)
	b.WriteString("\n\n" + fsm.Prompt(fsm.StateConfirmingOrder))

	summary := b.String()
	s.Scratch.Confirming = &entities.ConfirmingScratch{LastSummary: summary}
	return summary
}

func (u *TurnUseCase) helpReply(state fsm.State) string {
	return "Você pode mandar os itens do pedido como preferir, por exemplo: \"2 x-salada sem cebola e uma coca lata\". Para cancelar, é só dizer \"cancelar\".\n\n" + fsm.Prompt(state)
}

func paymentLabel(m entities.PaymentMethod) string {
	switch m {
	case entities.PaymentDinheiro:
		return "Dinheiro"
	case entities.PaymentPix:
		return "PIX"
	case entities.PaymentCartaoCredito:
		return "Cartão de crédito"
	case entities.PaymentCartaoDebito:
		return "Cartão de débito"
	case entities.PaymentCartao:
		return "Cartão"
	}
	return string(m)
}

func stateNames(states []fsm.State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

func findByCode(menu []entities.MenuItem, code string) *entities.MenuItem {
	for i := range menu {
		if menu[i].PDVCode == code {
			return &menu[i]
		}
	}
	return nil
}

func bestFuzzy(query string, items []entities.MenuItem) *entities.MenuItem {
	names := make([]string, len(items))
	keys := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
		keys[i] = item.PDVCode
	}
	ranked := interpreter.RankCandidates(query, names, keys, 0.5)
	if len(ranked) == 0 {
		return nil
	}
	return &items[ranked[0].Index]
}

// parseMoney extracts a monetary amount like "50", "50,00" or "troco pra
// 100" from free text.
func parseMoney(text string) (float64, bool) {
	m := moneyRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// replaceFold replaces the first case-insensitive occurrence of old in s.
func replaceFold(s, old, new string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(old))
	if idx < 0 {
		return s
	}
	return s[:idx] + new + s[idx+len(old):]
}
