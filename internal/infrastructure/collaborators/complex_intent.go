package collaborators

import (
	"context"

	"lia_agent/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// UnconfiguredComplexIntentHandler is wired when no LLM backend is
// configured. It always reports unavailability, which the dispatcher
// degrades into a re-prompt, so the guardrail-covered flows keep working
// without any model.

type UnconfiguredComplexIntentHandler struct {
	log *zap.Logger
}

var _ interfaces.IComplexIntentHandler = (*UnconfiguredComplexIntentHandler)(nil)

func NewUnconfiguredComplexIntentHandler(log *zap.Logger) *UnconfiguredComplexIntentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("complex_intent_handler_not_configured")
	return &UnconfiguredComplexIntentHandler{log: log}
}

func (h *UnconfiguredComplexIntentHandler) Resolve(_ context.Context, req interfaces.ComplexIntentRequest) (interfaces.ComplexIntentAction, error) {
	h.log.Debug("complex_intent_skipped",
		zap.String("tenant", req.TenantID),
		zap.String("state", req.State),
	)
	return interfaces.ComplexIntentAction{}, interfaces.ErrCollaboratorUnavailable
}
