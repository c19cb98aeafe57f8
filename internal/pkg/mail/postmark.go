package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/soldertec/site/internal/pkg/apperr"
)

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender sends through Postmark's transactional API.
type PostmarkSender struct {
	client  postmarkAPI
	from    string
	replyTo string
}

func NewPostmarkSender(serverToken, accountToken, from, replyTo string) *PostmarkSender {
	return &PostmarkSender{
		client:  postmark.NewClient(serverToken, accountToken),
		from:    from,
		replyTo: replyTo,
	}
}

func (s *PostmarkSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		To:         strings.Join(msg.To, ","),
		ReplyTo:    pick(msg.ReplyTo, s.replyTo),
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTML,
		TrackOpens: true,
	})
	if err != nil {
		return "", apperr.EmailDispatch("postmark send", err)
	}
	if resp.ErrorCode > 0 {
		return "", apperr.EmailDispatch("postmark send", fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message))
	}
	return resp.MessageID, nil
}
