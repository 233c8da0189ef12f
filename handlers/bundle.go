package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Assistant endpoints
	ChatHandler gin.HandlerFunc

	// Email endpoints
	ListInboxHandler    gin.HandlerFunc
	GetEmailHandler     gin.HandlerFunc
	SendEmailHandler    gin.HandlerFunc
	SuggestReplyHandler gin.HandlerFunc

	// Calendar endpoints
	ListEventsHandler  gin.HandlerFunc
	CreateEventHandler gin.HandlerFunc

	// CRM endpoints
	RegisterClientHandler gin.HandlerFunc
	GetClientHandler      gin.HandlerFunc
	LookupClientHandler   gin.HandlerFunc
	ListClientsHandler    gin.HandlerFunc
	UpdateClientHandler   gin.HandlerFunc
	DeleteClientHandler   gin.HandlerFunc
}
