package routes

import (
	"net/http"
	"time"

	"bookline/handlers"
	"bookline/middleware"
	"bookline/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAgentRoutes registers conversation endpoints.
func RegisterAgentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/conversations")
	{
		api.POST("", hb.StartConversationHandler)
		api.POST("/chat", hb.ChatHandler)
		api.POST("/speech", hb.SpeechChatHandler)
		api.DELETE("/:sessionID", hb.EndConversationHandler)
	}
}

// RegisterVoiceRoutes registers telephony webhook endpoints. The provider
// posts here, so these stay outside the /api group.
func RegisterVoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	voice := r.Group("/webhooks/voice")
	{
		voice.POST("/answer/:callID", hb.VoiceAnswerHandler)
		voice.POST("/speech/:callID", hb.VoiceSpeechHandler)
		voice.POST("/status/:callID", hb.VoiceStatusHandler)
	}
	r.GET("/api/calls/:callID", hb.GetCallHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"health": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterAgentRoutes(r, hb)
	RegisterVoiceRoutes(r, hb)
	RegisterHealthRoute(r)
}
