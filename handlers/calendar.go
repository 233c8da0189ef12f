package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marta/config"
	"marta/middleware"
	"marta/models"
	"marta/services/calendar"
)

// ListEventsHandler returns the caller's events for one day, defaulting to
// today in the configured timezone. Accepts ?date=2006-01-02.
func ListEventsHandler(svc calendar.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		credential := middleware.GetCredential(c)

		tz := config.AppConfig.DefaultTimeZone
		loc, err := time.LoadLocation(tz)
		if err != nil {
			loc = time.UTC
		}

		day := time.Now().In(loc)
		if dateStr := c.Query("date"); dateStr != "" {
			day, err = time.ParseInLocation("2006-01-02", dateStr, loc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'date', expected YYYY-MM-DD"})
				return
			}
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		end := start.AddDate(0, 0, 1)

		events, err := svc.ListOverlapping(c.Request.Context(), credential, start, end, loc.String())
		if err != nil {
			logger.Error("Failed to list events", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch calendar events"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": start.Format("2006-01-02"), "events": events})
	}
}

// CreateEventHandler creates a calendar event directly, bypassing the
// conversational flow. Duration and timezone fall back to the defaults the
// assistant uses.
func CreateEventHandler(svc calendar.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		credential := middleware.GetCredential(c)

		var appt models.AppointmentDetails
		if err := c.ShouldBindJSON(&appt); err != nil {
			logger.Error("Invalid event request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		if appt.Title == "" || appt.Date == "" || appt.Time == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fields 'title', 'date' and 'time' are required"})
			return
		}
		if appt.Duration <= 0 {
			appt.Duration = 30
		}
		if appt.TimeZone == "" {
			appt.TimeZone = config.AppConfig.DefaultTimeZone
		}
		if _, _, err := appt.Window(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'date', 'time' or 'timeZone'"})
			return
		}

		event, err := svc.CreateEvent(c.Request.Context(), credential, appt)
		if err != nil {
			logger.Error("Failed to create event", zap.String("title", appt.Title), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create calendar event"})
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}
