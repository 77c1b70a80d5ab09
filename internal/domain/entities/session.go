package entities

import (
	"time"
)

// SessionStatus is the lifecycle of a conversation session.

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
	SessionStatusError     SessionStatus = "error"
)

// DeliveryType is how the client receives the order.

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

// PaymentMethod are the accepted payment options.

type PaymentMethod string

const (
	PaymentDinheiro      PaymentMethod = "dinheiro"
	PaymentPix           PaymentMethod = "pix"
	PaymentCartaoCredito PaymentMethod = "cartao_credito"
	PaymentCartaoDebito  PaymentMethod = "cartao_debito"
	PaymentCartao        PaymentMethod = "cartao" // generic, still needs credit/debit
)

// PaymentDetails holds per-method payment metadata. Nothing here charges
// the client; the order is paid on delivery or via PIX transfer.

type PaymentDetails struct {
	Method            PaymentMethod `json:"method"`
	NeedsChange       bool          `json:"needs_change,omitempty"`
	ChangeFor         float64       `json:"change_for,omitempty"`
	PixProofReceived  bool          `json:"pix_proof_received,omitempty"`
	PixProofReference string        `json:"pix_proof_reference,omitempty"`
	CardBrand         string        `json:"card_brand,omitempty"`
}

// DeliveryAddress is the address collected during the conversation.
// Geocoding enrichment is done by an external collaborator.

type DeliveryAddress struct {
	RawText    string `json:"raw_text"`
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	District   string `json:"district,omitempty"`
	Complement string `json:"complement,omitempty"`
}

// CollectedData aggregates everything gathered across the conversation.

type CollectedData struct {
	ClientName       string           `json:"client_name,omitempty"`
	ClientPhone      string           `json:"client_phone,omitempty"`
	DeliveryType     DeliveryType     `json:"delivery_type,omitempty"`
	DeliveryAddress  *DeliveryAddress `json:"delivery_address,omitempty"`
	DeliveryFee      float64          `json:"delivery_fee,omitempty"`
	Payment          *PaymentDetails  `json:"payment,omitempty"`
	ItemsConfirmed   bool             `json:"items_confirmed,omitempty"`
	AddressConfirmed bool             `json:"address_confirmed,omitempty"`
	OrderConfirmed   bool             `json:"order_confirmed,omitempty"`
}

// StateScratch is the per-state scratch area, a tagged union keyed by the
// session's current state. Only the variant matching the state is set;
// the zero value means the state needs no scratch.

type StateScratch struct {
	// RESOLVING_PENDING: pendencies being clarified, indexed as presented.
	Resolving *ResolvingScratch `json:"resolving,omitempty"`
	// COLLECTING_PAYMENT_DETAILS: what detail is still missing.
	PaymentDetails *PaymentDetailsScratch `json:"payment_details,omitempty"`
	// CONFIRMING_*: the summary text last shown, so "repeat" can re-send it.
	Confirming *ConfirmingScratch `json:"confirming,omitempty"`
}

type ResolvingScratch struct {
	Pendencies []CartPendency `json:"pendencies"`
}

type PaymentDetailsScratch struct {
	AwaitingChangeFor bool `json:"awaiting_change_for,omitempty"`
	AwaitingCardBrand bool `json:"awaiting_card_brand,omitempty"`
}

type ConfirmingScratch struct {
	LastSummary string `json:"last_summary,omitempty"`
}

// Session is the single mutable record of one conversation.
//
// Invariant: at most one active session per (tenant, conversation); the
// repository enforces it by keying the active record on that pair.

type Session struct {
	ID             string        `json:"id"`
	TenantID       string        `json:"tenant_id"`
	ConversationID string        `json:"conversation_id"`
	Status         SessionStatus `json:"status"`

	State          string       `json:"state"`
	StateEnteredAt time.Time    `json:"state_entered_at"`
	Scratch        StateScratch `json:"scratch"`

	Cart      Cart          `json:"cart"`
	Collected CollectedData `json:"collected"`

	// LastMessageID is the newest message id of the last applied turn.
	LastMessageID string `json:"last_message_id,omitempty"`
	// AppliedMessageIDs is a bounded window of recently applied message
	// ids. Coalesced turns carry several ids; redelivery of any member,
	// not just the newest, must be recognized as already applied.
	AppliedMessageIDs []string `json:"applied_message_ids,omitempty"`

	MessageCount int `json:"message_count"`
	LLMCallCount int `json:"llm_call_count"`

	// POS submission outcome, recorded once the order is sent.
	POSOrderID    string `json:"pos_order_id,omitempty"`
	POSOrderError string `json:"pos_order_error,omitempty"`

	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

// appliedMessageWindow bounds the redelivery-detection window. Redelivered
// entries resurface within a lease or two of the original turn, long before
// this many newer messages arrive.
const appliedMessageWindow = 32

// MarkApplied records the message ids of an applied turn, trimming the
// window to its bound.
func (s *Session) MarkApplied(ids ...string) {
	s.AppliedMessageIDs = append(s.AppliedMessageIDs, ids...)
	if n := len(s.AppliedMessageIDs); n > appliedMessageWindow {
		s.AppliedMessageIDs = append([]string(nil), s.AppliedMessageIDs[n-appliedMessageWindow:]...)
	}
}

// WasApplied reports whether a message id was already applied to this
// session. LastMessageID covers records written before the window existed.
func (s Session) WasApplied(id string) bool {
	if id != "" && id == s.LastMessageID {
		return true
	}
	for _, applied := range s.AppliedMessageIDs {
		if applied == id {
			return true
		}
	}
	return false
}

// Touch records activity on the session.
func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
	s.UpdatedAt = now
}

// Close moves the session to a terminal status.
func (s *Session) Close(status SessionStatus, now time.Time) {
	s.Status = status
	s.ClosedAt = &now
	s.Touch(now)
}

// StaleSince reports whether the session saw no activity for longer than
// threshold. Follow-up/abandonment handling itself lives outside the core.
func (s Session) StaleSince(now time.Time, threshold time.Duration) bool {
	return now.Sub(s.LastActivityAt) > threshold
}
