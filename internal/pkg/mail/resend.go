package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/soldertec/site/internal/pkg/apperr"
)

type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	emails  resendEmails
	from    string
	replyTo string
}

func NewResendSender(apiKey, from, replyTo string) *ResendSender {
	client := resend.NewClient(apiKey)
	return &ResendSender{emails: client.Emails, from: from, replyTo: replyTo}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: pick(msg.ReplyTo, s.replyTo),
	}
	if msg.Tag != "" {
		req.Tags = []resend.Tag{{Name: "category", Value: msg.Tag}}
	}
	resp, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return "", apperr.EmailDispatch("resend send", err)
	}
	if resp == nil || resp.Id == "" {
		return "", apperr.EmailDispatch("resend send", fmt.Errorf("empty message id"))
	}
	return resp.Id, nil
}
