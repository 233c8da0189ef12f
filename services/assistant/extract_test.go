package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marta/models"
)

func mexicoCity(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	return loc
}

// Wednesday.
func fixedNow(t *testing.T) time.Time {
	return time.Date(2026, 8, 26, 10, 0, 0, 0, mexicoCity(t))
}

func TestExtractAppointmentFullUtterance(t *testing.T) {
	now := fixedNow(t)
	got := ExtractAppointment(
		"Quiero agendar una cita para revisión de contrato el lunes a las 3 de la tarde con cliente@empresa.mx durante 45 minutos",
		models.AppointmentDetails{TimeZone: "America/Mexico_City"},
		now,
	)

	assert.Equal(t, "revisión de contrato", got.Title)
	assert.Equal(t, "2026-08-31", got.Date, "el lunes should resolve to next Monday")
	assert.Equal(t, "15:00", got.Time)
	assert.Equal(t, 45, got.Duration)
	assert.Equal(t, []string{"cliente@empresa.mx"}, got.Attendees)
}

func TestExtractAbsoluteDate(t *testing.T) {
	got := ExtractAppointment("el 12/05 a las 10:30", models.AppointmentDetails{}, fixedNow(t))
	assert.Equal(t, "2026-05-12", got.Date, "missing year defaults to the current one")
	assert.Equal(t, "10:30", got.Time)

	got = ExtractAppointment("el 03/11/27", models.AppointmentDetails{}, fixedNow(t))
	assert.Equal(t, "2027-11-03", got.Date, "two-digit years read as 20xx")
}

func TestExtractRejectsImpossibleDate(t *testing.T) {
	got := ExtractAppointment("el 31/02 a las 9", models.AppointmentDetails{}, fixedNow(t))
	assert.Empty(t, got.Date)
}

func TestExtractClockPeriods(t *testing.T) {
	cases := map[string]string{
		"a las 3 de la tarde":     "15:00",
		"a las 8 de la noche":     "20:00",
		"a las 12 de la mañana":   "00:00",
		"a las 9 de la mañana":    "09:00",
		"a las 14:15":             "14:15",
		"la reunión es 16:45":     "16:45",
		"como a eso de las 11:00": "11:00",
	}
	for utterance, want := range cases {
		got := ExtractAppointment(utterance, models.AppointmentDetails{}, fixedNow(t))
		assert.Equal(t, want, got.Time, "utterance: %s", utterance)
	}
}

func TestExtractBareHourKeptAsStated(t *testing.T) {
	// Without a period marker the hour is taken literally, never guessed
	// into the afternoon.
	got := ExtractAppointment("a las 3", models.AppointmentDetails{}, fixedNow(t))
	assert.Equal(t, "03:00", got.Time)
}

func TestExtractDurationHours(t *testing.T) {
	got := ExtractAppointment("una llamada de 2 horas", models.AppointmentDetails{}, fixedNow(t))
	assert.Equal(t, 120, got.Duration)
}

func TestExtractPreservesExistingFields(t *testing.T) {
	existing := models.AppointmentDetails{
		Title: "kickoff",
		Date:  "2026-09-01",
		Time:  "10:00",
	}
	got := ExtractAppointment("para otra cosa el viernes a las 5 de la tarde", existing, fixedNow(t))

	assert.Equal(t, "kickoff", got.Title)
	assert.Equal(t, "2026-09-01", got.Date)
	assert.Equal(t, "10:00", got.Time)
}

func TestExtractIsIdempotent(t *testing.T) {
	utterance := "cita para demo el lunes a las 4 de la tarde con ana@cliente.com"
	once := ExtractAppointment(utterance, models.AppointmentDetails{}, fixedNow(t))
	twice := ExtractAppointment(utterance, once, fixedNow(t))
	assert.Equal(t, once, twice)
}

func TestExtractAttendeesUnique(t *testing.T) {
	got := ExtractAppointment(
		"con ana@cliente.com y también con ana@cliente.com",
		models.AppointmentDetails{}, fixedNow(t),
	)
	assert.Equal(t, []string{"ana@cliente.com"}, got.Attendees)
}

func TestNormalizeFoldsSpanishLetters(t *testing.T) {
	// ñ must fold along with the vowels, or "de la mañana" never reaches
	// the period rules.
	assert.Equal(t, "manana", normalize("MAÑANA"))
	assert.Equal(t, "miercoles a las 9 de la manana", normalize("miércoles a las 9 de la mañana"))
}

func TestNextWeekdaySameDayMeansNextWeek(t *testing.T) {
	now := fixedNow(t) // Wednesday
	next := nextWeekday(now, time.Wednesday)
	assert.Equal(t, "2026-09-02", next.Format("2006-01-02"))
}

func TestFormatSpanishDate(t *testing.T) {
	loc := mexicoCity(t)
	assert.Equal(t, "lunes, 31 de agosto de 2026", formatSpanishDate("2026-08-31", loc))
	assert.Equal(t, "not-a-date", formatSpanishDate("not-a-date", loc))
}

func TestExtractDraftRecipient(t *testing.T) {
	rec, ok := ExtractDraftRecipient("Envíale un e-mail a Juan Pérez García. Su e-mail es juan.perez@acme.com")
	require.True(t, ok)
	assert.Equal(t, "Juan Pérez García", rec.Name)
	assert.Equal(t, "juan.perez@acme.com", rec.Email)

	rec, ok = ExtractDraftRecipient("Envíale un correo a maria@cliente.io")
	require.True(t, ok)
	assert.Empty(t, rec.Name)
	assert.Equal(t, "maria@cliente.io", rec.Email)

	rec, ok = ExtractDraftRecipient("mándale la propuesta a Pedro (pedro@x.io)")
	require.True(t, ok)
	assert.Equal(t, "pedro@x.io", rec.Email)

	_, ok = ExtractDraftRecipient("envíale un correo a mi contacto de ayer")
	assert.False(t, ok)
}
