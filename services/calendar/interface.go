package calendar

import (
	"context"
	"time"

	"marta/models"
)

// Service defines the calendar transport collaborator.
type Service interface {
	// ListOverlapping returns events overlapping the half-open [start, end)
	// window. Recurring events are expanded by the transport.
	ListOverlapping(ctx context.Context, credential string, start, end time.Time, timeZone string) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, credential string, appt models.AppointmentDetails) (*models.CalendarEvent, error)
}
