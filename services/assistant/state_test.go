package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marta/models"
)

func TestIsConfirmation(t *testing.T) {
	yes := []string{"confirma", "Sí", "si, adelante", "dale", "confirma por favor", "adelante, hazlo"}
	no := []string{"no confirmo nada", "quizás", "", "mejor el martes", "suena bien"}

	for _, utterance := range yes {
		assert.True(t, isConfirmation(normalize(utterance)), "utterance: %q", utterance)
	}
	for _, utterance := range no {
		assert.False(t, isConfirmation(normalize(utterance)), "utterance: %q", utterance)
	}
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, isCancellation(normalize("olvídalo")))
	assert.True(t, isCancellation(normalize("cancela la cita")))
	assert.True(t, isCancellation(normalize("no")))
	assert.False(t, isCancellation(normalize("no, mejor el martes a las 5")))
	assert.False(t, isCancellation(normalize("a las 3 de la tarde")))
}

func TestValidateAppointmentFixedOrder(t *testing.T) {
	appt := models.AppointmentDetails{}

	field, prompt := validateAppointment(appt)
	assert.Equal(t, "title", field)
	assert.Contains(t, prompt, "título")

	appt.Title = "demo"
	field, prompt = validateAppointment(appt)
	assert.Equal(t, "date", field)
	assert.Contains(t, prompt, "fecha")

	appt.Date = "2026-08-31"
	field, prompt = validateAppointment(appt)
	assert.Equal(t, "time", field)
	assert.Contains(t, prompt, "hora")

	appt.Time = "15:00"
	field, _ = validateAppointment(appt)
	assert.Equal(t, "duration", field)

	appt.Duration = 30
	field, _ = validateAppointment(appt)
	assert.Empty(t, field)
}

func TestFillBareAnswerTitle(t *testing.T) {
	appt := models.AppointmentDetails{}

	got := fillBareAnswer(appt, "title", "Para revisión de contrato", normalize("Para revisión de contrato"))
	assert.Equal(t, "revisión de contrato", got.Title, "leading filler is dropped regardless of casing")

	got = fillBareAnswer(appt, "title", "para demo con ventas", normalize("para demo con ventas"))
	assert.Equal(t, "demo con ventas", got.Title)

	got = fillBareAnswer(appt, "title", "Paraguas y seguros", normalize("Paraguas y seguros"))
	assert.Equal(t, "Paraguas y seguros", got.Title, "only the standalone word is trimmed")
}

func TestMergeAmendmentOverwrites(t *testing.T) {
	base := models.AppointmentDetails{
		Title: "demo", Date: "2026-08-31", Time: "15:00", Duration: 30,
		Attendees: []string{"ana@cliente.com"},
	}
	fresh := models.AppointmentDetails{Time: "17:00", Attendees: []string{"luis@cliente.com"}}

	got := mergeAmendment(base, fresh)
	assert.Equal(t, "demo", got.Title)
	assert.Equal(t, "17:00", got.Time)
	assert.Equal(t, []string{"ana@cliente.com", "luis@cliente.com"}, got.Attendees)
}
