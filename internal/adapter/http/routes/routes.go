package routes

import (
	"net/http"

	"lia_agent/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the debug/admin HTTP surface. The conversation itself
// never goes through HTTP; it flows through the queue and the FSM.
func NewRouter(environment string, log *zap.Logger, sessionHandler *handlers.SessionHandler, intakeHandler *handlers.IntakeHandler) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("http_panic_recovered", zap.Any("panic", recovered))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addAgentRoutes(v1, sessionHandler, intakeHandler)

	return router
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
