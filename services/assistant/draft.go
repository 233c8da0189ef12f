package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"marta/config"
	"marta/models"
	"marta/utils"
)

var purposeRe = regexp.MustCompile(`(?i)pres[eé]nta(?:le|les)?\s+nuestros?\s+servicios`)

// buildDraft prepares an unsent email for caller-side review. The draft is
// returned in the payload; nothing is sent from here.
func (s *DefaultAssistantService) buildDraft(ctx context.Context, text, carried string) *models.AssistantResponse {
	rec, ok := ExtractDraftRecipient(text)
	if !ok {
		return &models.AssistantResponse{Reply: invalidRecipientReply, State: carried}
	}

	draft := s.composeDraft(ctx, rec, text)
	reply := fmt.Sprintf(
		"He preparado el siguiente borrador para %s:\n\nAsunto: %s\n\n%s\n\n¿Deseas enviarlo, editarlo o descartarlo?",
		draft.To, draft.Subject, draft.Body)

	return &models.AssistantResponse{
		Reply: reply,
		Data:  &models.ResponsePayload{Kind: models.PayloadDraftEmail, Draft: draft},
		State: carried,
	}
}

// composeDraft builds the deterministic skeleton first, then lets the
// composer rewrite the body if one is configured. A composition failure keeps
// the skeleton, never an error.
func (s *DefaultAssistantService) composeDraft(ctx context.Context, rec DraftRecipient, text string) *models.EmailDraft {
	cfg := config.AppConfig
	subject := "Presentación de los servicios de " + cfg.CompanyName

	salutation := "Estimado/a:"
	if rec.Name != "" {
		salutation = "Estimado/a " + firstTwoTokens(rec.Name) + ":"
	}

	body := fmt.Sprintf(
		"%s\n\nMi nombre es %s y me pongo en contacto de parte de %s. "+
			"Me gustaría presentarte nuestros servicios de análisis de datos y "+
			"agendar una breve llamada para contarte cómo podemos ayudar a tu equipo.\n\n"+
			"Quedo atenta a tu respuesta.\n\nSaludos cordiales,\n%s\n%s",
		salutation, cfg.AssistantName, cfg.CompanyName, cfg.AssistantName, cfg.AssistantEmail)

	if s.Composer != nil && purposeRe.MatchString(text) {
		prompt := fmt.Sprintf(
			"Redacta en español el cuerpo de un correo breve y profesional para %s, "+
				"presentando los servicios de %s. Firma como %s (%s). "+
				"Empieza con %q y devuelve únicamente el cuerpo del correo, sin asunto.",
			recipientLabel(rec), cfg.CompanyName, cfg.AssistantName, cfg.AssistantEmail, salutation)
		if composed, err := s.Composer.Compose(ctx, prompt); err != nil {
			utils.GetLogger().Warn("draft composition failed, using skeleton", zap.Error(err))
		} else {
			body = composed
		}
	}

	return &models.EmailDraft{
		To:            rec.Email,
		RecipientName: rec.Name,
		Subject:       subject,
		Body:          body,
	}
}

// firstTwoTokens keeps a salutation short: "Juan Pérez García" reads as
// "Juan Pérez".
func firstTwoTokens(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.Join(tokens, " ")
}

func recipientLabel(rec DraftRecipient) string {
	if rec.Name != "" {
		return fmt.Sprintf("%s <%s>", rec.Name, rec.Email)
	}
	return rec.Email
}
