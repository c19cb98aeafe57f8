// Package mail renders and dispatches transactional email.
package mail

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soldertec/site/internal/config"
	"github.com/soldertec/site/internal/pkg/apperr"
)

// Message is a single email to send.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	// Tag groups messages in provider dashboards.
	Tag string
}

// Sender delivers one message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// New builds the Sender selected by cfg.Provider.
func New(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.MailProviderResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.From, cfg.ReplyTo), nil
	case config.MailProviderPostmark:
		return NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.From, cfg.ReplyTo), nil
	case config.MailProviderSMTP:
		return NewSMTPSender(cfg.SMTP, cfg.From, cfg.ReplyTo), nil
	case config.MailProviderDev:
		logger.Warn("mail provider is dev, messages are written to disk", zap.String("dir", cfg.DevDir))
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.Provider)
	}
}

func validate(msg Message) error {
	if len(msg.To) == 0 {
		return apperr.EmailDispatch("send", fmt.Errorf("message has no recipients"))
	}
	for _, to := range msg.To {
		if strings.TrimSpace(to) == "" {
			return apperr.EmailDispatch("send", fmt.Errorf("message has an empty recipient"))
		}
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return apperr.EmailDispatch("send", fmt.Errorf("message has no subject"))
	}
	return nil
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
