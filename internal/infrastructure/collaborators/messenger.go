// Package collaborators holds the outbound integrations of the agent:
// reply delivery, POS submission and the complex-intent LLM. Every
// integration has a mock mode so the agent runs end to end locally with
// nothing but DynamoDB.
package collaborators

import (
	"context"

	"lia_agent/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// LogMessenger is the mock-mode reply channel: it logs the outbound text
// instead of delivering it. The production WhatsApp bridge lives outside
// this repo and consumes the same interface.

type LogMessenger struct {
	log *zap.Logger
}

var _ interfaces.IMessenger = (*LogMessenger)(nil)

func NewLogMessenger(log *zap.Logger) *LogMessenger {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("messenger_mock_mode_enabled")
	return &LogMessenger{log: log}
}

func (m *LogMessenger) Send(_ context.Context, tenantID, conversationID, text string) error {
	m.log.Info("outbound_message",
		zap.String("tenant", tenantID),
		zap.String("conversation", conversationID),
		zap.String("text", text),
	)
	return nil
}
