package routes

import (
	"lia_agent/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathSessions = "/sessions"
	PathDebug    = "/debug"
)

func addAgentRoutes(rg *gin.RouterGroup, sessionHandler *handlers.SessionHandler, intakeHandler *handlers.IntakeHandler) {
	sessions := rg.Group(PathSessions)
	{
		sessions.GET("/:tenant/:conversation", sessionHandler.GetActiveSession)
	}

	debug := rg.Group(PathDebug)
	{
		// Local-only entry point; production messages arrive via the bridge.
		debug.POST("/messages", intakeHandler.EnqueueMessage)
	}
}
