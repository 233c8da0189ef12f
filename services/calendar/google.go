package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"marta/models"
	"marta/utils"
)

const (
	primaryCalendar = "primary"
	requestTimeout  = 10 * time.Second
)

// GoogleCalendarService talks to the Google Calendar API with the caller's
// bearer token. Clients are built per call and never reused across users.
type GoogleCalendarService struct{}

func NewGoogleCalendarService() *GoogleCalendarService {
	return &GoogleCalendarService{}
}

func (s *GoogleCalendarService) client(ctx context.Context, credential string) (*gcal.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"})
	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return svc, nil
}

// ListOverlapping returns events on the primary calendar that overlap the
// half-open [start, end) window, recurring events expanded.
func (s *GoogleCalendarService) ListOverlapping(ctx context.Context, credential string, start, end time.Time, timeZone string) ([]models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := s.client(ctx, credential)
	if err != nil {
		return nil, err
	}

	list, err := svc.Events.List(primaryCalendar).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		TimeZone(timeZone).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, models.CalendarEvent{
			ID:       item.Id,
			Summary:  item.Summary,
			HTMLLink: item.HtmlLink,
			Start:    eventTime(item.Start),
			End:      eventTime(item.End),
		})
	}
	return events, nil
}

// CreateEvent inserts the appointment on the primary calendar and asks
// Google to email every attendee an invitation.
func (s *GoogleCalendarService) CreateEvent(ctx context.Context, credential string, appt models.AppointmentDetails) (*models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := s.client(ctx, credential)
	if err != nil {
		return nil, err
	}

	start, end, err := appt.Window()
	if err != nil {
		return nil, err
	}

	event := &gcal.Event{
		Summary:     appt.Title,
		Description: appt.Description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: appt.TimeZone},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: appt.TimeZone},
	}
	for _, email := range appt.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(primaryCalendar, event).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	utils.GetLogger().Info("calendar event created",
		zap.String("eventID", created.Id),
		zap.String("title", appt.Title),
		zap.Int("attendees", len(appt.Attendees)))

	return &models.CalendarEvent{
		ID:       created.Id,
		Summary:  created.Summary,
		HTMLLink: created.HtmlLink,
		Start:    eventTime(created.Start),
		End:      eventTime(created.End),
	}, nil
}

func eventTime(t *gcal.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
