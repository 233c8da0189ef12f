package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marta/middleware"
	"marta/models"
	"marta/services/intelligence"
	"marta/services/mail"
)

// ListInboxHandler returns the caller's recent inbox messages. An optional
// ?max= query parameter bounds the page size.
func ListInboxHandler(svc mail.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		credential := middleware.GetCredential(c)

		var max int64
		if raw := c.Query("max"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Parameter 'max' must be a positive integer"})
				return
			}
			max = parsed
		}

		emails, err := svc.ListInbox(c.Request.Context(), credential, max)
		if err != nil {
			logger.Error("Failed to list inbox", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch inbox"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"emails": emails})
	}
}

// GetEmailHandler returns a single message by ID.
func GetEmailHandler(svc mail.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		credential := middleware.GetCredential(c)
		id := c.Param("id")

		email, err := svc.Get(c.Request.Context(), credential, id)
		if err != nil {
			logger.Error("Failed to fetch email", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch email"})
			return
		}
		c.JSON(http.StatusOK, email)
	}
}

// SendEmailHandler sends a reviewed draft through the caller's account.
func SendEmailHandler(svc mail.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		credential := middleware.GetCredential(c)

		var msg models.OutgoingEmail
		if err := c.ShouldBindJSON(&msg); err != nil {
			logger.Error("Invalid send request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Subject) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fields 'to' and 'subject' are required"})
			return
		}

		id, err := svc.Send(c.Request.Context(), credential, msg)
		if err != nil {
			logger.Error("Failed to send email", zap.String("to", msg.To), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}

type suggestReplyRequest struct {
	EmailID string `json:"emailId"`
}

// SuggestReplyHandler drafts a reply to an existing message. Without a
// composer configured it falls back to a neutral acknowledgement.
func SuggestReplyHandler(svc mail.Service, composer intelligence.Composer) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		credential := middleware.GetCredential(c)

		var req suggestReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.EmailID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Field 'emailId' is required"})
			return
		}

		email, err := svc.Get(c.Request.Context(), credential, req.EmailID)
		if err != nil {
			logger.Error("Failed to fetch email for reply", zap.String("id", req.EmailID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch email"})
			return
		}

		suggestion := fmt.Sprintf(
			"Hola %s:\n\nGracias por tu correo. Lo he recibido y te responderé a la brevedad.\n\nSaludos cordiales.",
			email.SenderName)
		if composer != nil {
			prompt := fmt.Sprintf(
				"Redacta en español una respuesta breve y profesional al siguiente correo de %s "+
					"con asunto %q:\n\n%s\n\nDevuelve únicamente el cuerpo de la respuesta.",
				email.SenderName, email.Subject, email.Snippet)
			if composed, err := composer.Compose(c.Request.Context(), prompt); err != nil {
				logger.Warn("Reply composition failed, using fallback", zap.Error(err))
			} else {
				suggestion = composed
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"emailId":    email.ID,
			"to":         email.SenderEmail,
			"subject":    "Re: " + email.Subject,
			"suggestion": suggestion,
		})
	}
}
