package collaborators

import (
	"context"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockOrderSubmitter accepts every order and fabricates a POS order id.
// Used in mock mode; the real PDV integration implements the same
// interface out of tree.

type MockOrderSubmitter struct {
	log *zap.Logger
}

var _ interfaces.IOrderSubmitter = (*MockOrderSubmitter)(nil)

func NewMockOrderSubmitter(log *zap.Logger) *MockOrderSubmitter {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("order_submitter_mock_mode_enabled")
	return &MockOrderSubmitter{log: log}
}

func (s *MockOrderSubmitter) SubmitOrder(_ context.Context, session entities.Session) (string, error) {
	orderID := uuid.NewString()
	s.log.Info("mock_order_submitted",
		zap.String("session", session.ID),
		zap.String("tenant", session.TenantID),
		zap.String("pos_order_id", orderID),
		zap.Int("items", len(session.Cart.Items)),
		zap.Float64("subtotal", session.Cart.Subtotal()),
	)
	return orderID, nil
}
