package handlers

import (
	"net/http"

	response "lia_agent/internal/adapter/http/dto/response"
	"lia_agent/internal/usecase/interfaces"
	"lia_agent/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errSessionNotFound = pkg.NewDomainErrorSimple("SESSION_NOT_FOUND", "No active session for this conversation", http.StatusNotFound)
	errSessionLookup   = pkg.NewDomainErrorSimple("SESSION_LOOKUP_FAILED", "Failed to load session", http.StatusInternalServerError)
)

// SessionHandler exposes read-only session snapshots for debugging and
// operator support. All mutations go through the queue and the FSM.

type SessionHandler struct {
	sessions interfaces.ISessionRepository
}

func NewSessionHandler(sessions interfaces.ISessionRepository) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GetActiveSession returns the active session of one conversation.
func (h *SessionHandler) GetActiveSession(c *gin.Context) {
	tenantID := c.Param("tenant")
	conversationID := c.Param("conversation")

	session, err := h.sessions.GetActive(c.Request.Context(), tenantID, conversationID)
	if err != nil {
		c.JSON(errSessionLookup.HTTPStatus, errSessionLookup.ToHTTPError())
		return
	}
	if session.ID == "" {
		c.JSON(errSessionNotFound.HTTPStatus, errSessionNotFound.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromSession(session))
}
