package assistant

import (
	"context"

	"go.uber.org/zap"

	"marta/models"
	"marta/utils"
)

// checkConflicts asks the calendar for events overlapping the appointment
// window. The check fails open: if the calendar can't be reached the booking
// proceeds, since blocking every booking on a flaky lookup is worse than an
// occasional double-booked slot the invitation email will surface anyway.
func (s *DefaultAssistantService) checkConflicts(ctx context.Context, credential string, appt models.AppointmentDetails) models.ConflictResult {
	logger := utils.GetLogger()

	start, end, err := appt.Window()
	if err != nil {
		logger.Warn("conflict check skipped, appointment window invalid", zap.Error(err))
		return models.ConflictResult{}
	}

	events, err := s.Calendar.ListOverlapping(ctx, credential, start, end, appt.TimeZone)
	if err != nil {
		logger.Warn("conflict check failed, proceeding without it", zap.Error(err))
		return models.ConflictResult{}
	}
	if len(events) == 0 {
		return models.ConflictResult{}
	}

	return models.ConflictResult{
		HasConflict:        true,
		ConflictingSummary: events[0].Summary,
	}
}
