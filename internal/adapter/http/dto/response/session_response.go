package response

import (
	"time"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/domain/fsm"
)

type CartItemResponse struct {
	PDVCode   string  `json:"pdv_code"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Notes     string  `json:"notes,omitempty"`
}

type PendencyResponse struct {
	Kind         string   `json:"kind"`
	OriginalText string   `json:"original_text"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

type SessionResponse struct {
	ID               string             `json:"id"`
	TenantID         string             `json:"tenant_id"`
	ConversationID   string             `json:"conversation_id"`
	Status           string             `json:"status"`
	State            string             `json:"state"`
	StateDisplayName string             `json:"state_display_name"`
	StateEnteredAt   time.Time          `json:"state_entered_at"`
	Items            []CartItemResponse `json:"items"`
	Pendencies       []PendencyResponse `json:"pendencies,omitempty"`
	Subtotal         float64            `json:"subtotal"`
	CartSummary      string             `json:"cart_summary"`
	MessageCount     int                `json:"message_count"`
	LLMCallCount     int                `json:"llm_call_count"`
	POSOrderID       string             `json:"pos_order_id,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	LastActivityAt   time.Time          `json:"last_activity_at"`
}

func FromSession(s entities.Session) SessionResponse {
	items := make([]CartItemResponse, 0, len(s.Cart.Items))
	for _, i := range s.Cart.Items {
		items = append(items, CartItemResponse{
			PDVCode:   i.PDVCode,
			Name:      i.Name,
			Quantity:  i.Quantity,
			UnitPrice: i.UnitPrice,
			LineTotal: i.LineTotal(),
			Notes:     i.Notes,
		})
	}
	pendencies := make([]PendencyResponse, 0, len(s.Cart.Pendencies))
	for _, p := range s.Cart.Pendencies {
		pendencies = append(pendencies, PendencyResponse{
			Kind:         string(p.Kind),
			OriginalText: p.OriginalText,
			Suggestions:  p.Suggestions,
		})
	}
	return SessionResponse{
		ID:               s.ID,
		TenantID:         s.TenantID,
		ConversationID:   s.ConversationID,
		Status:           string(s.Status),
		State:            s.State,
		StateDisplayName: fsm.DisplayName(fsm.State(s.State)),
		StateEnteredAt:   s.StateEnteredAt,
		Items:            items,
		Pendencies:       pendencies,
		Subtotal:         s.Cart.Subtotal(),
		CartSummary:      s.Cart.Summary(),
		MessageCount:     s.MessageCount,
		LLMCallCount:     s.LLMCallCount,
		POSOrderID:       s.POSOrderID,
		CreatedAt:        s.CreatedAt,
		LastActivityAt:   s.LastActivityAt,
	}
}
