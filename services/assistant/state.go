package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"marta/models"
	"marta/utils"
)

// Confirmation must be explicit: one of these words as the first or last
// token of the utterance. Nothing else ever commits an event.
var confirmWords = map[string]bool{
	"confirma": true,
	"confirmo": true,
	"si":       true,
	"dale":     true,
	"procede":  true,
	"agenda":   true,
	"programa": true,
	"crea":     true,
	"hazlo":    true,
}

var cancelWords = map[string]bool{
	"cancela":    true,
	"cancelar":   true,
	"cancelalo":  true,
	"olvidalo":   true,
	"descarta":   true,
	"descartalo": true,
}

func isConfirmation(norm string) bool {
	tokens := cleanTokens(norm)
	if len(tokens) == 0 {
		return false
	}
	return confirmWords[tokens[0]] || confirmWords[tokens[len(tokens)-1]]
}

// isCancellation fires on a leading cancel word, or on a bare "no". A "no"
// embedded in a longer sentence ("no, mejor el martes") is an amendment, not
// a cancellation.
func isCancellation(norm string) bool {
	tokens := cleanTokens(norm)
	if len(tokens) == 0 {
		return false
	}
	if cancelWords[tokens[0]] {
		return true
	}
	return len(tokens) == 1 && tokens[0] == "no"
}

func cleanTokens(norm string) []string {
	fields := strings.Fields(norm)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, "¡¿!?.,;:\"'"); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// validateAppointment returns the first missing required field and the prompt
// asking for it, in fixed order. Empty field means the proposal is complete.
func validateAppointment(a models.AppointmentDetails) (field, prompt string) {
	switch {
	case a.Title == "":
		return "title", "Por favor ingresa un título para el evento."
	case a.Date == "":
		return "date", "Por favor selecciona una fecha. Puedes decirme un día de la semana o una fecha como 12/05."
	case a.Time == "":
		return "time", "Por favor selecciona una hora. Por ejemplo: a las 3 de la tarde."
	case a.Duration <= 0:
		return "duration", "Por favor especifica la duración. Por ejemplo: de 30 minutos."
	}
	return "", ""
}

// advance runs one turn of the appointment state machine: fold the utterance
// into the pending details, then move between NeedsInfo, Confirm, Conflict
// and the terminal phases. It returns the successor state, the reply, and the
// structured payload.
func (s *DefaultAssistantService) advance(ctx context.Context, credential string, st *models.AppointmentState, text string) (*models.AppointmentState, string, *models.ResponsePayload) {
	norm := normalize(text)

	if st.Active() && isCancellation(norm) {
		return &models.AppointmentState{}, cancelledReply, nil
	}

	loc := s.location()
	now := s.now().In(loc)

	appt := st.Appointment
	if appt.TimeZone == "" {
		appt.TimeZone = loc.String()
	}

	confirming := st.Phase == models.PhaseConfirm && isConfirmation(norm)
	if !confirming {
		switch st.Phase {
		case models.PhaseConfirm, models.PhaseConflict:
			// An answer at these phases is an amendment: freshly extracted
			// fields replace what was proposed.
			fresh := ExtractAppointment(text, models.AppointmentDetails{TimeZone: appt.TimeZone}, now)
			appt = mergeAmendment(appt, fresh)
		default:
			appt = ExtractAppointment(text, appt, now)
			appt = fillBareAnswer(appt, st.MissingField, text, norm)
		}
	}

	if field, prompt := validateAppointment(appt); field != "" && field != "duration" {
		next := &models.AppointmentState{
			Phase:        models.PhaseNeedsInfo,
			Appointment:  appt,
			MissingField: field,
		}
		return next, prompt, appointmentPayload(appt)
	}
	if appt.Duration <= 0 {
		appt.Duration = 30
	}

	if confirming {
		return s.commit(ctx, credential, appt, loc)
	}

	// Propose (or re-propose after an amendment), checking the calendar first.
	conflict := s.checkConflicts(ctx, credential, appt)
	if conflict.HasConflict {
		next := &models.AppointmentState{
			Phase:        models.PhaseConflict,
			Appointment:  appt,
			ConflictWith: conflict.ConflictingSummary,
		}
		reply := fmt.Sprintf(
			"He encontrado un conflicto: ya tienes %q el %s a las %s. ¿Quieres proponer otra hora u otra fecha?",
			conflict.ConflictingSummary, formatSpanishDate(appt.Date, loc), appt.Time)
		return next, reply, appointmentPayload(appt)
	}

	next := &models.AppointmentState{Phase: models.PhaseConfirm, Appointment: appt}
	return next, proposalReply(appt, loc), appointmentPayload(appt)
}

// commit re-checks the calendar and creates the event. The conflict re-check
// is mandatory: the calendar may have changed between proposal and
// confirmation, and a stale all-clear must never commit a double booking.
func (s *DefaultAssistantService) commit(ctx context.Context, credential string, appt models.AppointmentDetails, loc *time.Location) (*models.AppointmentState, string, *models.ResponsePayload) {
	conflict := s.checkConflicts(ctx, credential, appt)
	if conflict.HasConflict {
		next := &models.AppointmentState{
			Phase:        models.PhaseConflict,
			Appointment:  appt,
			ConflictWith: conflict.ConflictingSummary,
		}
		reply := fmt.Sprintf(
			"Lo siento, ahora aparece un conflicto: ya tienes %q el %s a las %s. ¿Quieres proponer otra hora u otra fecha?",
			conflict.ConflictingSummary, formatSpanishDate(appt.Date, loc), appt.Time)
		return next, reply, appointmentPayload(appt)
	}

	event, err := s.Calendar.CreateEvent(ctx, credential, appt)
	if err != nil {
		utils.GetLogger().Error("event creation failed",
			zap.String("title", appt.Title), zap.Error(err))
		next := &models.AppointmentState{
			Phase:       models.PhaseFailed,
			Appointment: appt,
			Reason:      err.Error(),
		}
		reply := fmt.Sprintf("Hubo un error al crear el evento: %s. Por favor, inténtalo de nuevo.", err.Error())
		return next, reply, appointmentPayload(appt)
	}

	if s.Notifier != nil {
		if err := s.Notifier.NotifyScheduled(credential, appt, event.ID); err != nil {
			utils.GetLogger().Warn("post-schedule notification failed", zap.Error(err))
		}
	}

	next := &models.AppointmentState{
		Phase:       models.PhaseScheduled,
		Appointment: appt,
		EventRef:    event.ID,
	}
	return next, scheduledReply(appt, loc), appointmentPayload(appt)
}

// fillBareAnswer handles terse answers to a NeedsInfo prompt that the general
// extraction rules can't place, like "revisión de contrato" for the title or
// "45 minutos" for the duration.
func fillBareAnswer(appt models.AppointmentDetails, missing, text, norm string) models.AppointmentDetails {
	switch missing {
	case "title":
		if appt.Title == "" {
			title := strings.Trim(strings.TrimSpace(text), ".,;:¡!¿?")
			// "Para revisión de contrato" answers the title prompt; the filler
			// word is dropped whatever its casing.
			if len(title) >= 5 && strings.EqualFold(title[:5], "para ") {
				title = title[5:]
			}
			if title != "" && !strings.Contains(title, "@") {
				appt.Title = title
			}
		}
	case "time":
		if appt.Time == "" {
			if m := bareHourRe.FindStringSubmatch(norm); m != nil {
				appt.Time = clockString(m[1], "", "")
			}
		}
	case "duration":
		if appt.Duration == 0 {
			if m := bareDurationRe.FindStringSubmatch(norm); m != nil {
				appt.Duration = durationMinutes(m[1], m[2])
			}
		}
	}
	return appt
}

// mergeAmendment overlays freshly extracted fields onto the proposed details.
func mergeAmendment(base, fresh models.AppointmentDetails) models.AppointmentDetails {
	out := base
	if fresh.Title != "" {
		out.Title = fresh.Title
	}
	if fresh.Date != "" {
		out.Date = fresh.Date
	}
	if fresh.Time != "" {
		out.Time = fresh.Time
	}
	if fresh.Duration > 0 {
		out.Duration = fresh.Duration
	}
	for _, att := range fresh.Attendees {
		if !out.HasAttendee(att) {
			out.Attendees = append(out.Attendees, att)
		}
	}
	return out
}

func appointmentPayload(appt models.AppointmentDetails) *models.ResponsePayload {
	snap := appt
	return &models.ResponsePayload{Kind: models.PayloadAppointment, Appointment: &snap}
}

func proposalReply(appt models.AppointmentDetails, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¿Deseas que programe la cita %q para el %s a las %s (%d minutos)?",
		appt.Title, formatSpanishDate(appt.Date, loc), appt.Time, appt.Duration)
	if len(appt.Attendees) > 0 {
		fmt.Fprintf(&b, " Se enviará una invitación a: %s.", strings.Join(appt.Attendees, ", "))
	}
	b.WriteString(" Responde \"confirma\" para agendarla, o dime qué quieres cambiar.")
	return b.String()
}

func scheduledReply(appt models.AppointmentDetails, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Perfecto! He agendado %q para el %s a las %s.",
		appt.Title, formatSpanishDate(appt.Date, loc), appt.Time)
	if len(appt.Attendees) > 0 {
		fmt.Fprintf(&b, " Se ha enviado una invitación a: %s.", strings.Join(appt.Attendees, ", "))
	} else {
		b.WriteString(" He creado el evento en tu calendario.")
	}
	return b.String()
}
