package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marta/models"
	"marta/utils"
)

// countTodaysEmails answers "¿cuántos correos he recibido hoy?": list the
// inbox, keep today's messages in the assistant's timezone, and phrase the
// count with correct Spanish number agreement.
func (s *DefaultAssistantService) countTodaysEmails(ctx context.Context, req models.AssistantRequest) *models.AssistantResponse {
	if req.Credential == "" {
		return &models.AssistantResponse{Reply: mailAuthReply, State: req.State}
	}

	emails, err := s.Mail.ListInbox(ctx, req.Credential, 0)
	if err != nil {
		utils.GetLogger().Sugar().Warnw("inbox listing failed", "error", err)
		return &models.AssistantResponse{Reply: mailUnavailableReply, State: req.State}
	}

	loc := s.location()
	today := s.now().In(loc)

	todays := make([]models.EmailSummary, 0, len(emails))
	for _, e := range emails {
		if sameDay(e.ReceivedAt.In(loc), today) {
			todays = append(todays, e)
		}
	}

	payload := &models.ResponsePayload{Kind: models.PayloadEmailList, Emails: todays}

	switch len(todays) {
	case 0:
		return &models.AssistantResponse{Reply: noEmailsTodayReply, Data: payload, State: req.State}
	case 1:
		e := todays[0]
		reply := fmt.Sprintf("He recibido 1 correo electrónico hoy, de %s: %q.", e.SenderName, e.Subject)
		return &models.AssistantResponse{Reply: reply, Data: payload, State: req.State}
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "He recibido %d correos electrónicos hoy:\n", len(todays))
		for i, e := range todays {
			fmt.Fprintf(&b, "%d. %s: %q\n", i+1, e.SenderName, e.Subject)
		}
		return &models.AssistantResponse{Reply: strings.TrimRight(b.String(), "\n"), Data: payload, State: req.State}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
