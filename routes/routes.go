package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marta/handlers"
	"marta/middleware"
)

// RegisterAssistantRoutes registers the conversational endpoint. No
// RequireCredential here: the engine answers unauthenticated turns with a
// sign-in prompt in Spanish.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assistant")
	{
		api.POST("/chat", hb.ChatHandler)
	}
}

// RegisterEmailRoutes registers the direct mailbox endpoints.
func RegisterEmailRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/emails")
	{
		api.Use(middleware.RequireCredential())
		api.GET("", hb.ListInboxHandler)
		api.GET("/:id", hb.GetEmailHandler)
		api.POST("/send", hb.SendEmailHandler)
		api.POST("/suggest-reply", hb.SuggestReplyHandler)
	}
}

// RegisterCalendarRoutes registers the calendar endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.RequireCredential())
		api.GET("/events", hb.ListEventsHandler)
		api.POST("/events", hb.CreateEventHandler)
	}
}

// RegisterClientRoutes registers the CRM contact endpoints.
func RegisterClientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/clients")
	{
		api.POST("", hb.RegisterClientHandler)
		api.GET("", hb.ListClientsHandler)
		api.GET("/lookup", hb.LookupClientHandler)
		api.GET("/:id", hb.GetClientHandler)
		api.PUT("/:id", hb.UpdateClientHandler)
		api.DELETE("/:id", hb.DeleteClientHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hola, soy Marta"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.ExtractCredential())

	RegisterAssistantRoutes(r, hb)
	RegisterEmailRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterClientRoutes(r, hb)
	RegisterHealthRoute(r)
}
