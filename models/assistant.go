package models

import "time"

// AssistantRequest is the payload coming from the frontend into /api/assistant/chat.
type AssistantRequest struct {
	Text       string `json:"text"`                 // user's message
	State      string `json:"state,omitempty"`      // carried-state token from the previous turn
	SenderName string `json:"senderName,omitempty"` // optional identity used for salutations

	// Credential is the bearer token for the Google transports. It is set by
	// the handler from the Authorization header, never from the JSON body.
	Credential string `json:"-"`
}

// PayloadKind tags the structured payload attached to a reply.
type PayloadKind string

const (
	PayloadAppointment PayloadKind = "appointment"
	PayloadDraftEmail  PayloadKind = "draft_email"
	PayloadEmailList   PayloadKind = "email_list"
	PayloadNone        PayloadKind = "none"
)

// ResponsePayload carries the structured half of an assistant reply. Exactly
// one of the pointer fields is populated, matching Kind.
type ResponsePayload struct {
	Kind        PayloadKind         `json:"kind"`
	Appointment *AppointmentDetails `json:"appointment,omitempty"`
	Draft       *EmailDraft         `json:"draft,omitempty"`
	Emails      []EmailSummary      `json:"emails,omitempty"`
}

// AssistantResponse is the envelope returned for every turn. State is the
// opaque carried-state token the caller must replay on the next utterance;
// it is empty once a conversation thread has finished.
type AssistantResponse struct {
	Reply string           `json:"reply"`
	Data  *ResponsePayload `json:"data,omitempty"`
	State string           `json:"state,omitempty"`
}

// EmailDraft is a prepared, unsent email returned for caller-side review.
type EmailDraft struct {
	To            string `json:"to"`
	RecipientName string `json:"recipientName,omitempty"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
}

// EmailSummary is a single inbox item as listed by the mail transport.
type EmailSummary struct {
	ID          string    `json:"id"`
	SenderName  string    `json:"senderName"`
	SenderEmail string    `json:"senderEmail"`
	Subject     string    `json:"subject"`
	Snippet     string    `json:"snippet,omitempty"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

// OutgoingEmail is the payload handed to the mail transport's send operation.
type OutgoingEmail struct {
	To        string `json:"to"`
	CC        string `json:"cc,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	InReplyTo string `json:"inReplyTo,omitempty"` // message ID for threading
}
