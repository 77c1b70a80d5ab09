package request

import "strings"

// EnqueueMessageRequest simulates one inbound client message on the debug
// API. Production traffic reaches the queue through the messaging bridge,
// not through this endpoint.

type EnqueueMessageRequest struct {
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id" binding:"required"`
	MessageID      string `json:"message_id" binding:"required"`
	Text           string `json:"text" binding:"required"`
}

func (r EnqueueMessageRequest) ResolveTenantID(fallback string) string {
	if t := strings.TrimSpace(r.TenantID); t != "" {
		return t
	}
	return fallback
}
