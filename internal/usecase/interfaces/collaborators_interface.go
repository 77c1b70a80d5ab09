package interfaces

import (
	"context"
	"errors"

	"lia_agent/internal/domain/entities"
)

// ErrCollaboratorUnavailable is the typed failure external collaborators
// return when unconfigured or down. The dispatcher degrades to a
// re-prompt instead of failing the turn.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// IMessenger delivers a rendered reply to the client. Fire-and-forget:
// failures are reported but never block state persistence.

type IMessenger interface {
	Send(ctx context.Context, tenantID, conversationID, text string) error
}

// IOrderSubmitter hands the finalized order to the POS. Acceptance or
// rejection is recorded on the session; it does not reopen item
// collection.

type IOrderSubmitter interface {
	SubmitOrder(ctx context.Context, s entities.Session) (posOrderID string, err error)
}

// ComplexIntentRequest is the context handed to the LLM collaborator for
// a turn the guardrails could not classify.

type ComplexIntentRequest struct {
	TenantID       string
	ConversationID string
	State          string
	AllowedStates  []string
	CartSummary    string
	Text           string
}

// ComplexIntentAction is the structured action the collaborator proposes.
// The dispatcher never trusts it blindly: TargetState is re-validated
// against the legal transition table before being applied.

type ComplexIntentAction struct {
	TargetState   string
	Reply         string
	DeliveryType  string
	PaymentMethod string
	AddressText   string
	ChangeFor     float64
}

// IComplexIntentHandler is the LLM collaborator contract.

type IComplexIntentHandler interface {
	Resolve(ctx context.Context, req ComplexIntentRequest) (ComplexIntentAction, error)
}
