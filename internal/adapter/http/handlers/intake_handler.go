package handlers

import (
	"net/http"

	request "lia_agent/internal/adapter/http/dto/request"
	"lia_agent/internal/usecase"
	"lia_agent/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidMessagePayload = pkg.NewDomainErrorSimple("INVALID_MESSAGE_INPUT", "Invalid message payload", http.StatusBadRequest)
	errEnqueueFailed         = pkg.NewDomainErrorSimple("ENQUEUE_FAILED", "Failed to enqueue message", http.StatusInternalServerError)
)

// IntakeHandler injects messages into the queue from the debug API, for
// local runs without the messaging bridge.

type IntakeHandler struct {
	intake        usecase.IIntakeUseCase
	defaultTenant string
}

func NewIntakeHandler(intake usecase.IIntakeUseCase, defaultTenant string) *IntakeHandler {
	return &IntakeHandler{intake: intake, defaultTenant: defaultTenant}
}

// EnqueueMessage accepts one simulated inbound message.
func (h *IntakeHandler) EnqueueMessage(c *gin.Context) {
	var payload request.EnqueueMessageRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidMessagePayload.HTTPStatus, errInvalidMessagePayload.ToHTTPError())
		return
	}

	err := h.intake.Enqueue(
		c.Request.Context(),
		payload.ResolveTenantID(h.defaultTenant),
		payload.ConversationID,
		payload.MessageID,
		payload.Text,
	)
	if err != nil {
		c.JSON(errEnqueueFailed.HTTPStatus, errEnqueueFailed.ToHTTPError())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
