package assistant

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marta/models"
	"marta/utils"
)

// courtesyRes strip the boilerplate users wrap requests in, so the rules see
// the request itself. Only leading salutations are removed; "por favor" goes
// wherever it appears.
var courtesyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*¡?hola,?\s+marta[.,!]*\s*`),
	regexp.MustCompile(`(?i)^\s*¡?hola[.,!]*\s+`),
	regexp.MustCompile(`(?i)^\s*¡?(?:buenos\s+d[ií]as|buenas\s+tardes|buenas\s+noches)[.,!]*\s*`),
	regexp.MustCompile(`(?i)\bpor\s+favor[.,!]*\s*`),
}

func stripCourtesy(text string) string {
	for _, re := range courtesyRes {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// Handle runs one conversational turn. It never returns an error and never
// panics outward: any internal failure degrades to an apologetic reply with
// the caller's carried state untouched.
func (s *DefaultAssistantService) Handle(ctx context.Context, req models.AssistantRequest) (resp *models.AssistantResponse) {
	logger := utils.GetLogger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("assistant turn panicked", zap.Any("panic", r))
			resp = &models.AssistantResponse{Reply: apologyReply, State: req.State}
		}
	}()

	text := stripCourtesy(req.Text)
	stateID, st := s.loadState(ctx, req.State)

	// An active thread owns the turn outright; a terse answer like "el lunes"
	// must not be re-classified as a greeting.
	if st.Active() {
		return s.continueAppointment(ctx, req, stateID, st, text)
	}

	switch Classify(text) {
	case IntentGreeting:
		return &models.AssistantResponse{Reply: greetingFor(req.SenderName), State: req.State}
	case IntentDraftEmail:
		return s.buildDraft(ctx, text, req.State)
	case IntentEmailCount:
		return s.countTodaysEmails(ctx, req)
	case IntentAppointment:
		return s.continueAppointment(ctx, req, stateID, st, text)
	default:
		return &models.AssistantResponse{Reply: fallbackReply, State: req.State}
	}
}

// loadState resolves the carried-state token into the stored thread state.
// Anything invalid — a bad token, an expired entry, a state that fails
// re-validation — degrades to a fresh empty state, never an error.
func (s *DefaultAssistantService) loadState(ctx context.Context, token string) (string, *models.AppointmentState) {
	empty := &models.AppointmentState{}
	if token == "" {
		return "", empty
	}
	logger := utils.GetLogger().Sugar()

	id, err := utils.ExtractStateIDFromToken(token)
	if err != nil {
		logger.Warnw("rejecting carried-state token", "error", err)
		return "", empty
	}
	st, err := s.Store.Get(ctx, id)
	if err != nil {
		logger.Warnw("failed to load conversation state", "id", id, "error", err)
		return "", empty
	}
	if !validState(st) {
		logger.Warnw("discarding invalid stored state", "id", id, "phase", st.Phase)
		return id, empty
	}
	return id, st
}

// validState re-validates a stored state before trusting it. Terminal phases
// read as empty (the thread is over), and an active state must be internally
// coherent for its phase.
func validState(st *models.AppointmentState) bool {
	switch st.Phase {
	case models.PhaseEmpty, models.PhaseScheduled, models.PhaseFailed:
		return st.Phase == models.PhaseEmpty
	case models.PhaseNeedsInfo:
		return st.MissingField != ""
	case models.PhaseConfirm, models.PhaseConflict:
		if field, _ := validateAppointment(st.Appointment); field != "" && field != "duration" {
			return false
		}
		_, _, err := st.Appointment.Window()
		return err == nil
	}
	return false
}

// continueAppointment runs the state machine for the turn and persists the
// successor state, handing the caller a fresh opaque token while the thread
// stays active.
func (s *DefaultAssistantService) continueAppointment(ctx context.Context, req models.AssistantRequest, stateID string, st *models.AppointmentState, text string) *models.AssistantResponse {
	if req.Credential == "" {
		return &models.AssistantResponse{Reply: calendarAuthReply, State: req.State}
	}

	next, reply, payload := s.advance(ctx, req.Credential, st, text)
	resp := &models.AssistantResponse{Reply: reply, Data: payload}

	if next.Active() {
		id := stateID
		if id == "" {
			id = uuid.New().String()
		}
		if err := s.Store.Set(ctx, id, next); err != nil {
			utils.GetLogger().Sugar().Warnw("failed to persist conversation state", "id", id, "error", err)
			return resp
		}
		token, err := utils.GenerateStateToken(id, s.StateTTL)
		if err != nil {
			utils.GetLogger().Sugar().Warnw("failed to issue carried-state token", "error", err)
			return resp
		}
		resp.State = token
		return resp
	}

	if stateID != "" {
		if err := s.Store.Clear(ctx, stateID); err != nil {
			utils.GetLogger().Sugar().Warnw("failed to clear conversation state", "id", stateID, "error", err)
		}
	}
	return resp
}
