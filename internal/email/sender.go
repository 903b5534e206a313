package email

import (
	"context"
	"time"
)

// Attachment is a file sent with an email. A non-empty ContentID makes it an
// inline attachment referenced from the HTML as cid:<ContentID>.
type Attachment struct {
	Filename  string
	Content   []byte
	ContentID string
}

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To          []string
	From        string
	Subject     string
	HTML        string
	ReplyTo     string
	Attachments []Attachment
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
