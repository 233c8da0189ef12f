package assistant

import (
	"regexp"
	"strings"
)

// Intent is the coarse classification of one utterance. Classification only
// runs when no appointment thread is active; mid-thread utterances go
// straight to the state machine.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentDraftEmail  Intent = "draft_email"
	IntentEmailCount  Intent = "email_count"
	IntentAppointment Intent = "appointment"
	IntentUnknown     Intent = "unknown"
)

// greetingOpeners covers the salutations users actually type, Spanish first.
var greetingOpeners = []string{
	"hola", "buenos dias", "buen dia", "buenas tardes", "buenas noches",
	"que tal", "saludos",
	"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
}

var (
	draftRe = regexp.MustCompile(`\benvia(?:le|me)?\s+un\s+(?:correo|e-?\s?mail|email)\b|\b(?:redacta|prepara|escribe)(?:le|me)?\s+un\s+(?:correo|borrador|e-?\s?mail|email)\b`)

	emailCountRe = regexp.MustCompile(`\b(?:cuantos?|hay)\s+(?:correos?|e-?\s?mails?|emails?|mensajes?)\b`)

	appointmentRe = regexp.MustCompile(`\b(?:programa|agenda|sacar|saca|hacer|haz|crear|crea|organiza)\w*\b.*\b(?:cita|reunion|evento|llamada)\b`)
)

var emailCountPhrases = []string{
	"correos nuevos", "emails nuevos", "mensajes nuevos",
	"he recibido", "han llegado", "me llegaron",
	"bandeja de entrada", "correos hoy",
	"revisa mi correo", "revisa mis correos",
}

var appointmentWords = []string{
	"cita", "reunion", "agendar", "agenda", "programar",
	"evento", "calendario", "disponibilidad",
}

// Classify buckets an utterance in strict precedence order: greeting, email
// draft, email count, appointment, unknown. The input is expected to already
// have courtesy boilerplate stripped.
func Classify(text string) Intent {
	norm := normalize(strings.TrimSpace(text))
	if len(strings.Fields(norm)) <= 3 || opensWithGreeting(norm) {
		return IntentGreeting
	}
	if draftRe.MatchString(norm) {
		return IntentDraftEmail
	}
	if matchesEmailCount(norm) {
		return IntentEmailCount
	}
	if matchesAppointment(norm) {
		return IntentAppointment
	}
	return IntentUnknown
}

func opensWithGreeting(norm string) bool {
	trimmed := strings.TrimLeft(norm, "¡¿!?., ")
	for _, opener := range greetingOpeners {
		if strings.HasPrefix(trimmed, opener) {
			return true
		}
	}
	return false
}

func matchesEmailCount(norm string) bool {
	if emailCountRe.MatchString(norm) {
		return true
	}
	for _, phrase := range emailCountPhrases {
		if strings.Contains(norm, phrase) {
			return true
		}
	}
	return false
}

func matchesAppointment(norm string) bool {
	if appointmentRe.MatchString(norm) {
		return true
	}
	for _, word := range appointmentWords {
		if containsWord(norm, word) {
			return true
		}
	}
	return false
}

// containsWord matches on token boundaries so "cita" doesn't fire on
// "capacitación".
func containsWord(norm, word string) bool {
	for _, tok := range strings.Fields(norm) {
		if strings.Trim(tok, "¡¿!?.,;:\"'") == word {
			return true
		}
	}
	return false
}
