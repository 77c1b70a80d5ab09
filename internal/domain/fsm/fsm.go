package fsm

import (
	"errors"

	"go.uber.org/zap"
)

// State is one conversation stage.
//
// Typical flow:
// GREETING → COLLECTING_ITEMS → CONFIRMING_ITEMS → COLLECTING_DELIVERY_TYPE
// → COLLECTING_ADDRESS → CONFIRMING_ADDRESS → COLLECTING_PAYMENT
// → COLLECTING_PAYMENT_DETAILS → [AWAITING_PIX_PROOF] → CONFIRMING_ORDER
// → ORDER_SENT
//
// Detours: RESOLVING_PENDING when lines could not be matched, CANCELLED on
// explicit cancel intent (reachable from every non-terminal state).

type State string

const (
	StateGreeting               State = "GREETING"
	StateCollectingItems        State = "COLLECTING_ITEMS"
	StateConfirmingItems        State = "CONFIRMING_ITEMS"
	StateResolvingPending       State = "RESOLVING_PENDING"
	StateCollectingDeliveryType State = "COLLECTING_DELIVERY_TYPE"
	StateCollectingAddress      State = "COLLECTING_ADDRESS"
	StateConfirmingAddress      State = "CONFIRMING_ADDRESS"
	StateCollectingPayment      State = "COLLECTING_PAYMENT"
	StateCollectingPaymentDet   State = "COLLECTING_PAYMENT_DETAILS"
	StateAwaitingPixProof       State = "AWAITING_PIX_PROOF"
	StateConfirmingOrder        State = "CONFIRMING_ORDER"
	StateOrderSent              State = "ORDER_SENT"
	StateCancelled              State = "CANCELLED"
)

// ErrIllegalTransition is returned when the target state is not reachable
// from the current one. Callers must stay in the current state and
// re-prompt instead of applying the move.
var ErrIllegalTransition = errors.New("illegal fsm transition")

// ErrUnknownState is returned for states missing from the table.
var ErrUnknownState = errors.New("unknown fsm state")

// Requirements describes a state: where it may go next, whether the order
// interpreter should run on inbound text, and the re-prompt used when a
// turn cannot advance.

type Requirements struct {
	Allowed         []State
	CanReceiveItems bool
	Terminal        bool
	Prompt          string
	// TimeoutMinutes overrides the default staleness threshold (0 = default).
	TimeoutMinutes int
}

var table = map[State]Requirements{
	StateGreeting: {
		Allowed:         []State{StateCollectingItems, StateCancelled},
		CanReceiveItems: true, // clients often open with the order itself
		Prompt:          "Olá! O que você gostaria de pedir hoje?",
	},
	StateCollectingItems: {
		Allowed:         []State{StateConfirmingItems, StateResolvingPending, StateCancelled},
		CanReceiveItems: true,
		Prompt:          "Pode mandar os itens do seu pedido.",
	},
	StateConfirmingItems: {
		Allowed:         []State{StateCollectingItems, StateCollectingDeliveryType, StateCancelled},
		CanReceiveItems: true, // "mais um X" while confirming
		Prompt:          "Confirma o pedido acima?",
	},
	StateResolvingPending: {
		Allowed:         []State{StateCollectingItems, StateConfirmingItems, StateCancelled},
		CanReceiveItems: true,
		Prompt:          "Não encontrei alguns itens, pode me dizer qual das sugestões você quis?",
	},
	StateCollectingDeliveryType: {
		Allowed: []State{StateCollectingAddress, StateCollectingPayment, StateCollectingItems, StateCancelled},
		Prompt:  "Vai ser entrega ou retirada no balcão?",
	},
	StateCollectingAddress: {
		Allowed: []State{StateConfirmingAddress, StateCancelled},
		Prompt:  "Qual o endereço de entrega? (rua, número e bairro)",
	},
	StateConfirmingAddress: {
		Allowed: []State{StateCollectingAddress, StateCollectingPayment, StateCancelled},
		Prompt:  "O endereço está correto?",
	},
	StateCollectingPayment: {
		Allowed: []State{StateCollectingPaymentDet, StateConfirmingOrder, StateCancelled},
		Prompt:  "Qual a forma de pagamento? (dinheiro, pix, crédito ou débito)",
	},
	StateCollectingPaymentDet: {
		Allowed: []State{StateAwaitingPixProof, StateConfirmingOrder, StateCollectingPayment, StateCancelled},
		Prompt:  "Precisa de troco? Se sim, troco para quanto?",
	},
	StateAwaitingPixProof: {
		Allowed:        []State{StateConfirmingOrder, StateCollectingPayment, StateCancelled},
		Prompt:         "Aguardando o comprovante do PIX.",
		TimeoutMinutes: 15,
	},
	StateConfirmingOrder: {
		Allowed: []State{StateOrderSent, StateCollectingItems, StateCollectingPayment, StateCancelled},
		Prompt:  "Posso confirmar e enviar seu pedido?",
	},
	StateOrderSent: {
		Terminal: true,
		Prompt:   "Pedido enviado! Obrigado!",
	},
	StateCancelled: {
		Terminal: true,
		Prompt:   "Pedido cancelado. Até a próxima!",
	},
}

// RequirementsOf returns the table entry for a state.
func RequirementsOf(s State) (Requirements, error) {
	req, ok := table[s]
	if !ok {
		return Requirements{}, ErrUnknownState
	}
	return req, nil
}

// Initial is the state of a freshly created session.
func Initial() State { return StateGreeting }

// IsTerminal reports whether s ends the conversation.
func IsTerminal(s State) bool { return table[s].Terminal }

// CanReceiveItems reports whether inbound text in s should be run through
// the order interpreter.
func CanReceiveItems(s State) bool { return table[s].CanReceiveItems }

// Prompt is the re-prompt sent when a turn cannot advance out of s.
func Prompt(s State) string { return table[s].Prompt }

// AllowedTransitions lists the states reachable from s.
func AllowedTransitions(s State) []State { return table[s].Allowed }

// CanTransition reports whether from → to is in the legal table.
func CanTransition(from, to State) bool {
	for _, s := range table[from].Allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Machine validates transitions over a current state. It holds no
// conversation data; the session record owns that.

type Machine struct {
	Current State
	log     *zap.Logger
}

func NewMachine(current State, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{Current: current, log: log}
}

// Transition moves to target when legal, otherwise keeps the current
// state and returns ErrIllegalTransition (fail closed).
func (m *Machine) Transition(target State, reason string) error {
	if _, ok := table[m.Current]; !ok {
		return ErrUnknownState
	}
	if !CanTransition(m.Current, target) {
		m.log.Warn("fsm_invalid_transition",
			zap.String("from", string(m.Current)),
			zap.String("to", string(target)),
			zap.String("reason", reason),
		)
		return ErrIllegalTransition
	}
	m.log.Info("fsm_transition",
		zap.String("from", string(m.Current)),
		zap.String("to", string(target)),
		zap.String("reason", reason),
	)
	m.Current = target
	return nil
}

// Context carries the facts SuggestNext needs to pick the next state.

type Context struct {
	CartHasItems           bool
	CartHasPendencies      bool
	ItemsConfirmed         bool
	DeliveryType           string // "delivery" | "pickup" | ""
	AddressProvided        bool
	AddressConfirmed       bool
	PaymentMethod          string
	PaymentDetailsComplete bool
	PixProofReceived       bool
	OrderConfirmed         bool
}

// SuggestNext proposes the next state given the current one and the
// collected facts. Returns false when the conversation should stay put.
// The proposal still goes through Transition, so an inconsistent caller
// cannot bypass the legal table.
func SuggestNext(current State, ctx Context) (State, bool) {
	switch current {
	case StateGreeting:
		// Pendencies still route through COLLECTING_ITEMS first; GREETING
		// has a single forward edge.
		if ctx.CartHasItems || ctx.CartHasPendencies {
			return StateCollectingItems, true
		}
	case StateCollectingItems:
		if ctx.CartHasPendencies {
			return StateResolvingPending, true
		}
		if ctx.CartHasItems {
			return StateConfirmingItems, true
		}
	case StateConfirmingItems:
		if ctx.ItemsConfirmed {
			return StateCollectingDeliveryType, true
		}
	case StateResolvingPending:
		if !ctx.CartHasPendencies {
			if ctx.CartHasItems {
				return StateConfirmingItems, true
			}
			return StateCollectingItems, true
		}
	case StateCollectingDeliveryType:
		switch ctx.DeliveryType {
		case "pickup":
			return StateCollectingPayment, true
		case "delivery":
			return StateCollectingAddress, true
		}
	case StateCollectingAddress:
		if ctx.AddressProvided {
			return StateConfirmingAddress, true
		}
	case StateConfirmingAddress:
		if ctx.AddressConfirmed {
			return StateCollectingPayment, true
		}
	case StateCollectingPayment:
		switch ctx.PaymentMethod {
		case "pix", "dinheiro":
			return StateCollectingPaymentDet, true
		case "cartao_credito", "cartao_debito":
			return StateConfirmingOrder, true
		}
	case StateCollectingPaymentDet:
		if ctx.PaymentMethod == "pix" {
			return StateAwaitingPixProof, true
		}
		if ctx.PaymentDetailsComplete {
			return StateConfirmingOrder, true
		}
	case StateAwaitingPixProof:
		if ctx.PixProofReceived {
			return StateConfirmingOrder, true
		}
	case StateConfirmingOrder:
		if ctx.OrderConfirmed {
			return StateOrderSent, true
		}
	}
	return current, false
}

// DisplayName is the friendly state name used in logs and the debug API.
func DisplayName(s State) string {
	names := map[State]string{
		StateGreeting:               "Saudação",
		StateCollectingItems:        "Coletando Itens",
		StateConfirmingItems:        "Confirmando Itens",
		StateResolvingPending:       "Resolvendo Pendências",
		StateCollectingDeliveryType: "Tipo de Entrega",
		StateCollectingAddress:      "Coletando Endereço",
		StateConfirmingAddress:      "Confirmando Endereço",
		StateCollectingPayment:      "Forma de Pagamento",
		StateCollectingPaymentDet:   "Detalhes Pagamento",
		StateAwaitingPixProof:       "Aguardando PIX",
		StateConfirmingOrder:        "Confirmação Final",
		StateOrderSent:              "Pedido Enviado",
		StateCancelled:              "Cancelado",
	}
	if n, ok := names[s]; ok {
		return n
	}
	return string(s)
}

// All lists every state in the table, for closure tests and debug output.
func All() []State {
	return []State{
		StateGreeting, StateCollectingItems, StateConfirmingItems,
		StateResolvingPending, StateCollectingDeliveryType,
		StateCollectingAddress, StateConfirmingAddress,
		StateCollectingPayment, StateCollectingPaymentDet,
		StateAwaitingPixProof, StateConfirmingOrder,
		StateOrderSent, StateCancelled,
	}
}
