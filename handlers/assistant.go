package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marta/middleware"
	"marta/models"
	"marta/services/assistant"
)

// ChatHandler runs one conversational turn. The engine owns all failure
// modes, so the only non-200 outcome here is a malformed payload.
func ChatHandler(svc assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.AssistantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid chat request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Field 'text' is required"})
			return
		}

		req.Credential = middleware.GetCredential(c)
		resp := svc.Handle(c.Request.Context(), req)
		c.JSON(http.StatusOK, resp)
	}
}
