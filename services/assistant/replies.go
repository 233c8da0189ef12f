package assistant

import (
	"fmt"
	"math/rand"
	"strings"
)

// greetingReplies is the pool a greeting answer is drawn from at random, so
// repeated saludos don't read canned.
var greetingReplies = []string{
	"¡Hola! Soy Marta, tu asistente. ¿En qué puedo ayudarte hoy?",
	"¡Hola! ¿Cómo estás? Estoy aquí para ayudarte con tus correos y citas.",
	"¡Buen día! ¿Qué necesitas? Puedo revisar tu bandeja de entrada, redactar correos o agendar reuniones.",
	"¡Hola! Un gusto saludarte. Dime, ¿en qué te puedo ayudar?",
}

func randomGreeting() string {
	return greetingReplies[rand.Intn(len(greetingReplies))]
}

// greetingFor addresses the caller by name when the request carries one.
func greetingFor(senderName string) string {
	if name := strings.TrimSpace(senderName); name != "" {
		return fmt.Sprintf("¡Hola, %s! ¿En qué puedo ayudarte hoy?", firstTwoTokens(name))
	}
	return randomGreeting()
}

const (
	// fallbackReply is returned for utterances no rule understands.
	fallbackReply = "Lo siento, no he entendido tu solicitud. ¿Podrías ser más específico?"

	// apologyReply is the only thing a caller sees when an internal error or
	// panic interrupts a turn.
	apologyReply = "Lo siento, ha ocurrido un error al procesar tu solicitud. Por favor, inténtalo de nuevo más tarde."

	// calendarAuthReply is returned when an appointment flow needs the
	// calendar but the request carried no credential.
	calendarAuthReply = "Lo siento, no puedo acceder a tu calendario sin que hayas iniciado sesión. Por favor, inicia sesión e inténtalo de nuevo."

	// mailAuthReply mirrors calendarAuthReply for the inbox.
	mailAuthReply = "Lo siento, no puedo consultar tu correo sin que hayas iniciado sesión. Por favor, inicia sesión e inténtalo de nuevo."

	// mailUnavailableReply is returned when the mailbox cannot be reached.
	mailUnavailableReply = "Lo siento, no pude consultar tu bandeja de entrada en este momento. Por favor, inténtalo de nuevo más tarde."

	// noEmailsTodayReply is the zero-count answer.
	noEmailsTodayReply = "No he recibido ningún correo electrónico hoy."

	// cancelledReply acknowledges an abandoned appointment thread.
	cancelledReply = "De acuerdo, he descartado la cita. ¿Hay algo más en lo que pueda ayudarte?"

	// invalidRecipientReply is returned when a draft request carries no
	// usable address.
	invalidRecipientReply = "No he encontrado una dirección de correo válida para el destinatario. Por favor, indícame su e-mail e inténtalo de nuevo."
)
