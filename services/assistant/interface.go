package assistant

import (
	"context"
	"time"

	"marta/config"
	"marta/models"
	"marta/services/calendar"
	"marta/services/intelligence"
	"marta/services/mail"
	"marta/services/notification"
	"marta/utils"
)

const defaultTimeZone = "America/Mexico_City"

// Service is the conversational engine. Handle never returns an error: every
// failure becomes an apologetic Spanish reply so the caller always has
// something to show.
type Service interface {
	Handle(ctx context.Context, req models.AssistantRequest) *models.AssistantResponse
}

// DefaultAssistantService wires the engine to its collaborators. Composer and
// Notifier are optional; everything they do has a deterministic fallback.
type DefaultAssistantService struct {
	Mail     mail.Service
	Calendar calendar.Service
	Store    ContextStore
	Composer intelligence.Composer
	Notifier notification.Service

	TimeZone string
	StateTTL time.Duration

	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

func NewDefaultAssistantService(mailSvc mail.Service, calendarSvc calendar.Service, store ContextStore) *DefaultAssistantService {
	ttl := time.Duration(config.AppConfig.ContextTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	tz := config.AppConfig.DefaultTimeZone
	if tz == "" {
		tz = defaultTimeZone
	}
	return &DefaultAssistantService{
		Mail:     mailSvc,
		Calendar: calendarSvc,
		Store:    store,
		TimeZone: tz,
		StateTTL: ttl,
	}
}

func (s *DefaultAssistantService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultAssistantService) location() *time.Location {
	tz := s.TimeZone
	if tz == "" {
		tz = defaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		utils.GetLogger().Sugar().Warnw("invalid timezone, falling back to UTC", "tz", tz, "error", err)
		return time.UTC
	}
	return loc
}
