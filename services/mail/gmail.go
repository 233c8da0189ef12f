package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"marta/models"
	"marta/utils"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
	requestTimeout  = 10 * time.Second
)

// clampPageSize bounds a caller-supplied page size. Zero or negative means
// the default; Gmail caps list pages at 100.
func clampPageSize(max int64) int64 {
	if max <= 0 {
		return defaultPageSize
	}
	if max > maxPageSize {
		return maxPageSize
	}
	return max
}

// GmailService talks to the Gmail API on behalf of the caller. A fresh API
// client is built per call from the caller's bearer token, so tokens are
// never shared between users or kept beyond the request.
type GmailService struct{}

func NewGmailService() *GmailService {
	return &GmailService{}
}

func (s *GmailService) client(ctx context.Context, credential string) (*gmail.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	return svc, nil
}

// ListInbox returns the most recent inbox messages, newest first. A max of
// zero asks for the default page size.
func (s *GmailService) ListInbox(ctx context.Context, credential string, max int64) ([]models.EmailSummary, error) {
	logger := utils.GetLogger().Sugar()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := s.client(ctx, credential)
	if err != nil {
		return nil, err
	}

	list, err := svc.Users.Messages.List("me").
		LabelIds("INBOX").
		MaxResults(clampPageSize(max)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	summaries := make([]models.EmailSummary, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msg, err := svc.Users.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject").
			Context(ctx).
			Do()
		if err != nil {
			logger.Warnw("skipping unreadable message", "id", ref.Id, "error", err)
			continue
		}
		summaries = append(summaries, summarize(msg))
	}
	return summaries, nil
}

// Get fetches a single message by ID.
func (s *GmailService) Get(ctx context.Context, credential, id string) (*models.EmailSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := s.client(ctx, credential)
	if err != nil {
		return nil, err
	}

	msg, err := svc.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("From", "Subject").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}
	summary := summarize(msg)
	return &summary, nil
}

// Send submits the message through the caller's account and returns the
// Gmail message ID.
func (s *GmailService) Send(ctx context.Context, credential string, msg models.OutgoingEmail) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	svc, err := s.client(ctx, credential)
	if err != nil {
		return "", err
	}

	raw := base64.URLEncoding.EncodeToString([]byte(BuildMIME(msg)))
	sent, err := svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	utils.GetLogger().Info("email sent", zap.String("to", msg.To), zap.String("messageID", sent.Id))
	return sent.Id, nil
}

// BuildMIME renders an RFC 2822 plain-text message ready for the raw send
// endpoint.
func BuildMIME(msg models.OutgoingEmail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.CC != "" {
		fmt.Fprintf(&b, "Cc: %s\r\n", msg.CC)
	}
	// Non-ASCII subjects need RFC 2047 encoding; BEncoding leaves plain
	// ASCII untouched.
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", msg.Subject))
	if msg.InReplyTo != "" {
		fmt.Fprintf(&b, "In-Reply-To: %s\r\n", msg.InReplyTo)
		fmt.Fprintf(&b, "References: %s\r\n", msg.InReplyTo)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}

func summarize(msg *gmail.Message) models.EmailSummary {
	summary := models.EmailSummary{
		ID:         msg.Id,
		Snippet:    msg.Snippet,
		ReceivedAt: time.UnixMilli(msg.InternalDate),
	}
	if msg.Payload == nil {
		return summary
	}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From":
			summary.SenderName, summary.SenderEmail = splitAddress(h.Value)
		case "Subject":
			summary.Subject = h.Value
		}
	}
	return summary
}

// splitAddress parses a "Display Name <user@host>" header into its parts.
// A bare address is returned as both name and email.
func splitAddress(from string) (name, email string) {
	from = strings.TrimSpace(from)
	lt := strings.LastIndex(from, "<")
	gt := strings.LastIndex(from, ">")
	if lt >= 0 && gt > lt {
		email = strings.TrimSpace(from[lt+1 : gt])
		name = strings.Trim(strings.TrimSpace(from[:lt]), `"`)
		if name == "" {
			name = email
		}
		return name, email
	}
	return from, from
}
