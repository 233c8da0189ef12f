package mail

import (
	"context"

	"marta/models"
)

// Service defines the mailbox transport collaborator. The credential is the
// caller's opaque bearer token; it is never inspected or cached.
type Service interface {
	ListInbox(ctx context.Context, credential string, max int64) ([]models.EmailSummary, error)
	Get(ctx context.Context, credential, id string) (*models.EmailSummary, error)
	Send(ctx context.Context, credential string, msg models.OutgoingEmail) (string, error)
}
