package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	return NewResendSenderWithClient(resend.NewClient(apiKey), from, logger)
}

// NewResendSenderWithClient lets callers point the client at another base URL.
func NewResendSenderWithClient(client *resend.Client, from string, logger *zap.Logger) *ResendSender {
	return &ResendSender{client: client, from: from, logger: logger}
}

func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}
	for _, a := range req.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:  a.Filename,
			Content:   a.Content,
			ContentId: a.ContentID,
		})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error("Resend send failed", zap.Error(err), zap.Strings("to", req.To), zap.String("subject", req.Subject))
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	s.logger.Info("Email sent", zap.String("message_id", sent.Id), zap.Strings("to", req.To))
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}
