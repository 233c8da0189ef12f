package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marta/config"
	"marta/models"
)

func init() {
	config.AppConfig.AssistantName = "Marta Maria Mendez"
	config.AppConfig.AssistantEmail = "mmendez@datanalisis.io"
	config.AppConfig.CompanyName = "datanalisis.io"
	config.AppConfig.DefaultTimeZone = "America/Mexico_City"
}

type fakeMail struct {
	emails  []models.EmailSummary
	listErr error
	sent    []models.OutgoingEmail
}

func (f *fakeMail) ListInbox(ctx context.Context, credential string, max int64) ([]models.EmailSummary, error) {
	return f.emails, f.listErr
}

func (f *fakeMail) Get(ctx context.Context, credential, id string) (*models.EmailSummary, error) {
	for i := range f.emails {
		if f.emails[i].ID == id {
			return &f.emails[i], nil
		}
	}
	return nil, fmt.Errorf("no such message")
}

func (f *fakeMail) Send(ctx context.Context, credential string, msg models.OutgoingEmail) (string, error) {
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

type fakeCalendar struct {
	events    []models.CalendarEvent
	listErr   error
	created   []models.AppointmentDetails
	createErr error
}

func (f *fakeCalendar) ListOverlapping(ctx context.Context, credential string, start, end time.Time, timeZone string) ([]models.CalendarEvent, error) {
	return f.events, f.listErr
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, credential string, appt models.AppointmentDetails) (*models.CalendarEvent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, appt)
	return &models.CalendarEvent{ID: fmt.Sprintf("evt-%d", len(f.created)), Summary: appt.Title}, nil
}

type memStore struct {
	states map[string]*models.AppointmentState
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]*models.AppointmentState)}
}

func (m *memStore) Get(ctx context.Context, id string) (*models.AppointmentState, error) {
	if st, ok := m.states[id]; ok {
		snap := *st
		return &snap, nil
	}
	return &models.AppointmentState{}, nil
}

func (m *memStore) Set(ctx context.Context, id string, st *models.AppointmentState) error {
	snap := *st
	m.states[id] = &snap
	return nil
}

func (m *memStore) Clear(ctx context.Context, id string) error {
	delete(m.states, id)
	return nil
}

func newTestService(t *testing.T, mailSvc *fakeMail, cal *fakeCalendar) *DefaultAssistantService {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	return &DefaultAssistantService{
		Mail:     mailSvc,
		Calendar: cal,
		Store:    newMemStore(),
		TimeZone: "America/Mexico_City",
		StateTTL: 30 * time.Minute,
		// Wednesday morning.
		Clock: func() time.Time { return time.Date(2026, 8, 26, 10, 0, 0, 0, loc) },
	}
}

func authedRequest(text, state string) models.AssistantRequest {
	return models.AssistantRequest{Text: text, State: state, Credential: "tok-123"}
}

func TestGreetingLeavesStateUntouched(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), models.AssistantRequest{Text: "Hola Marta"})
	assert.Contains(t, greetingReplies, resp.Reply)
	assert.Empty(t, resp.State)
	assert.Nil(t, resp.Data)
}

func TestGreetingAddressesSenderByName(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), models.AssistantRequest{
		Text:       "Hola Marta",
		SenderName: "Carlos Ruiz Ortega",
	})
	assert.Equal(t, "¡Hola, Carlos Ruiz! ¿En qué puedo ayudarte hoy?", resp.Reply)
}

func TestUnknownFallsBack(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), authedRequest("explícame el pronóstico del clima en Madrid esta semana", ""))
	assert.Equal(t, fallbackReply, resp.Reply)
}

func TestScheduleFlowEndToEnd(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest(
		"Quiero agendar una cita para revisión de contrato el lunes a las 3 de la tarde con cliente@empresa.mx", ""))

	assert.Contains(t, resp.Reply, "¿Deseas que programe la cita")
	assert.Contains(t, resp.Reply, "revisión de contrato")
	assert.Contains(t, resp.Reply, "lunes, 31 de agosto de 2026")
	assert.Contains(t, resp.Reply, "15:00")
	require.NotEmpty(t, resp.State, "an active thread must hand back a carried-state token")
	require.NotNil(t, resp.Data)
	assert.Equal(t, models.PayloadAppointment, resp.Data.Kind)
	assert.Empty(t, cal.created, "nothing is committed before an explicit confirmation")

	resp = svc.Handle(ctx, authedRequest("confirma", resp.State))

	assert.Contains(t, resp.Reply, "¡Perfecto! He agendado")
	assert.Contains(t, resp.Reply, "cliente@empresa.mx")
	assert.Empty(t, resp.State, "a finished thread clears the carried state")
	require.Len(t, cal.created, 1)
	created := cal.created[0]
	assert.Equal(t, "revisión de contrato", created.Title)
	assert.Equal(t, "2026-08-31", created.Date)
	assert.Equal(t, "15:00", created.Time)
	assert.Equal(t, 30, created.Duration, "duration defaults to 30 minutes when unstated")
	assert.Equal(t, []string{"cliente@empresa.mx"}, created.Attendees)
}

func TestNeedsInfoCollectsMissingTitle(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest("agenda una cita el lunes a las 3 de la tarde", ""))
	assert.Contains(t, resp.Reply, "Por favor ingresa un título")
	require.NotEmpty(t, resp.State)

	// A terse answer mid-thread is the title, not a new greeting.
	resp = svc.Handle(ctx, authedRequest("Revisión de contrato", resp.State))
	assert.Contains(t, resp.Reply, "¿Deseas que programe la cita")
	assert.Contains(t, resp.Reply, "Revisión de contrato")
	assert.Empty(t, cal.created)
}

func TestConflictAtProposalThenReschedule(t *testing.T) {
	cal := &fakeCalendar{events: []models.CalendarEvent{{ID: "e1", Summary: "Comité semanal"}}}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest(
		"programa una reunión para seguimiento el lunes a las 3 de la tarde", ""))
	assert.Contains(t, resp.Reply, "conflicto")
	assert.Contains(t, resp.Reply, "Comité semanal")
	require.NotEmpty(t, resp.State)
	assert.Empty(t, cal.created)

	// The slot frees up and the user proposes another time.
	cal.events = nil
	resp = svc.Handle(ctx, authedRequest("mejor a las 5 de la tarde", resp.State))
	assert.Contains(t, resp.Reply, "¿Deseas que programe la cita")
	assert.Contains(t, resp.Reply, "17:00")
	assert.Empty(t, cal.created)
}

func TestConflictAppearingAtConfirmationBlocksCommit(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest(
		"agenda una cita para demo el viernes a las 11:00", ""))
	assert.Contains(t, resp.Reply, "¿Deseas que programe la cita")

	// The calendar changes between proposal and confirmation.
	cal.events = []models.CalendarEvent{{ID: "e9", Summary: "Entrevista"}}
	resp = svc.Handle(ctx, authedRequest("confirma", resp.State))

	assert.Contains(t, resp.Reply, "conflicto")
	assert.Contains(t, resp.Reply, "Entrevista")
	assert.Empty(t, cal.created, "a stale all-clear must never commit a double booking")
	assert.NotEmpty(t, resp.State, "the thread stays open for a new proposal")
}

func TestNonConfirmationNeverSchedules(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest("agenda una cita para demo el viernes a las 11:00", ""))
	require.NotEmpty(t, resp.State)

	resp = svc.Handle(ctx, authedRequest("suena bien eso creo", resp.State))
	assert.Empty(t, cal.created)
	assert.Contains(t, resp.Reply, "¿Deseas que programe la cita")
}

func TestCancelMidFlow(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest("agenda una cita el lunes a las 3 de la tarde", ""))
	require.NotEmpty(t, resp.State)

	resp = svc.Handle(ctx, authedRequest("olvídalo", resp.State))
	assert.Equal(t, cancelledReply, resp.Reply)
	assert.Empty(t, resp.State)
	assert.Empty(t, cal.created)
}

func TestCreateFailureReportsAndEndsThread(t *testing.T) {
	cal := &fakeCalendar{createErr: fmt.Errorf("backend unavailable")}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest("agenda una cita para demo el viernes a las 11:00", ""))
	resp = svc.Handle(ctx, authedRequest("confirma", resp.State))

	assert.Contains(t, resp.Reply, "Hubo un error al crear el evento")
	assert.Contains(t, resp.Reply, "backend unavailable", "the transport reason is surfaced, not a generic crash message")
	assert.Empty(t, resp.State, "Failed is terminal")
}

func TestConflictCheckFailsOpen(t *testing.T) {
	cal := &fakeCalendar{listErr: fmt.Errorf("calendar down")}
	svc := newTestService(t, &fakeMail{}, cal)
	ctx := context.Background()

	resp := svc.Handle(ctx, authedRequest("agenda una cita para demo el viernes a las 11:00", ""))
	assert.Contains(t, resp.Reply, "¿Deseas que programe la cita")

	resp = svc.Handle(ctx, authedRequest("confirma", resp.State))
	assert.Contains(t, resp.Reply, "¡Perfecto!")
	assert.Len(t, cal.created, 1)
}

func TestAppointmentWithoutCredential(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), models.AssistantRequest{
		Text: "agenda una cita para demo el viernes a las 11:00",
	})
	assert.Equal(t, calendarAuthReply, resp.Reply)
	assert.Empty(t, resp.State)
}

func TestEmailCountToday(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	today := time.Date(2026, 8, 26, 8, 30, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)

	mailSvc := &fakeMail{emails: []models.EmailSummary{
		{ID: "1", SenderName: "Ana López", Subject: "Propuesta", ReceivedAt: today},
		{ID: "2", SenderName: "Luis Mora", Subject: "Factura", ReceivedAt: today.Add(time.Hour)},
		{ID: "3", SenderName: "Viejo", Subject: "Archivo", ReceivedAt: yesterday},
	}}
	svc := newTestService(t, mailSvc, &fakeCalendar{})

	resp := svc.Handle(context.Background(), authedRequest("¿cuántos correos he recibido el día de hoy?", ""))
	assert.Contains(t, resp.Reply, "He recibido 2 correos electrónicos hoy")
	assert.Contains(t, resp.Reply, "Ana López")
	require.NotNil(t, resp.Data)
	assert.Equal(t, models.PayloadEmailList, resp.Data.Kind)
	assert.Len(t, resp.Data.Emails, 2)
}

func TestEmailCountZero(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), authedRequest("¿cuántos correos he recibido el día de hoy?", ""))
	assert.Equal(t, noEmailsTodayReply, resp.Reply)
}

func TestEmailCountMailboxDown(t *testing.T) {
	mailSvc := &fakeMail{listErr: fmt.Errorf("gmail unavailable")}
	svc := newTestService(t, mailSvc, &fakeCalendar{})

	resp := svc.Handle(context.Background(), authedRequest("¿cuántos correos he recibido el día de hoy?", ""))
	assert.Equal(t, mailUnavailableReply, resp.Reply)
}

func TestDraftEmailPayload(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), authedRequest(
		"Envíale un e-mail a Juan Pérez García. Su e-mail es juan.perez@acme.com y preséntale nuestros servicios", ""))

	require.NotNil(t, resp.Data)
	require.Equal(t, models.PayloadDraftEmail, resp.Data.Kind)
	draft := resp.Data.Draft
	require.NotNil(t, draft)
	assert.Equal(t, "juan.perez@acme.com", draft.To)
	assert.Equal(t, "Presentación de los servicios de datanalisis.io", draft.Subject)
	assert.Contains(t, draft.Body, "Estimado/a Juan Pérez:")
	assert.Contains(t, resp.Reply, "¿Deseas enviarlo, editarlo o descartarlo?")
}

func TestDraftWithoutValidAddress(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), authedRequest(
		"Envíale un correo a mi contacto de la semana pasada", ""))
	assert.Equal(t, invalidRecipientReply, resp.Reply)
	assert.Nil(t, resp.Data)
}

func TestTamperedStateTokenDegradesToFreshTurn(t *testing.T) {
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})

	resp := svc.Handle(context.Background(), models.AssistantRequest{
		Text:       "Hola Marta, ¿qué tal?",
		State:      "not-a-real-token",
		Credential: "tok-123",
	})
	assert.Contains(t, greetingReplies, resp.Reply)
}

func TestPanicBecomesApology(t *testing.T) {
	// A nil calendar makes the conflict check panic; the caller still gets a
	// well-formed reply.
	svc := newTestService(t, &fakeMail{}, &fakeCalendar{})
	svc.Calendar = nil

	resp := svc.Handle(context.Background(), authedRequest(
		"agenda una cita para demo el viernes a las 11:00", ""))
	assert.Equal(t, apologyReply, resp.Reply)
}
