package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	clientRepo "marta/database/repository/client"
	"marta/models"
	"marta/services/crm"
)

// RegisterClientHandler creates a CRM contact.
func RegisterClientHandler(svc crm.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var client models.Client
		if err := c.ShouldBindJSON(&client); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		created, err := svc.Register(c.Request.Context(), client)
		if err != nil {
			logger.Error("Failed to register client", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// GetClientHandler returns a contact by ID.
func GetClientHandler(svc crm.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondClientError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// LookupClientHandler resolves a contact by ?phone= or ?email=.
func LookupClientHandler(svc crm.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			client *models.Client
			err    error
		)
		switch {
		case c.Query("phone") != "":
			client, err = svc.LookupByPhone(c.Request.Context(), c.Query("phone"))
		case c.Query("email") != "":
			client, err = svc.LookupByEmail(c.Request.Context(), c.Query("email"))
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'phone' or 'email' is required"})
			return
		}
		if err != nil {
			respondClientError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// ListClientsHandler returns every contact.
func ListClientsHandler(svc crm.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		clients, err := svc.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list clients", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"clients": clients})
	}
}

// UpdateClientHandler replaces a contact.
func UpdateClientHandler(svc crm.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client models.Client
		if err := c.ShouldBindJSON(&client); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		client.ID = c.Param("id")

		updated, err := svc.Update(c.Request.Context(), client)
		if err != nil {
			respondClientError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteClientHandler removes a contact.
func DeleteClientHandler(svc crm.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondClientError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

func respondClientError(c *gin.Context, err error) {
	if errors.Is(err, clientRepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	getLogger(c).Error("Client operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
