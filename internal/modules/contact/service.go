package contact

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/mail"
	"github.com/soldertec/site/internal/pkg/validate"
)

// Request is a contact form submission.
type Request struct {
	Name         string `json:"name"         validate:"required,max=200"`
	Email        string `json:"email"        validate:"required,emailshape,max=320"`
	Phone        string `json:"phone"        validate:"max=50"`
	State        string `json:"state"        validate:"max=120"`
	Municipality string `json:"municipality" validate:"max=120"`
	Company      string `json:"company"      validate:"max=200"`
	Position     string `json:"position"     validate:"max=120"`
	Industry     string `json:"industry"     validate:"max=120"`
	Message      string `json:"message"      validate:"required,max=5000"`
	Language     string `json:"language"`
}

func (r *Request) trim() {
	for _, f := range []*string{&r.Name, &r.Email, &r.Phone, &r.State, &r.Municipality,
		&r.Company, &r.Position, &r.Industry, &r.Message, &r.Language} {
		*f = strings.TrimSpace(*f)
	}
}

// Result carries the relay ids of both emails.
type Result struct {
	InternalID string `json:"internal"`
	ClientID   string `json:"client"`
}

type Service struct {
	sender     mail.Sender
	renderer   *mail.Renderer
	validator  *validate.Validator
	salesInbox string
	logger     *zap.Logger
}

func NewService(sender mail.Sender, renderer *mail.Renderer, v *validate.Validator, salesInbox string, logger *zap.Logger) *Service {
	return &Service{sender: sender, renderer: renderer, validator: v, salesInbox: salesInbox, logger: logger}
}

// Submit emails the sales inbox and sends the submitter a copy. A failed
// send aborts the submission; nothing is retried.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	req.trim()
	if err := s.validator.Struct(&req); err != nil {
		return Result{}, err
	}
	c := mail.Contact{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		State:        req.State,
		Municipality: req.Municipality,
		Company:      req.Company,
		Position:     req.Position,
		Industry:     req.Industry,
		Message:      req.Message,
		Language:     i18n.Normalize(req.Language),
	}

	internal, err := s.renderer.ContactInternal(c)
	if err != nil {
		return Result{}, apperr.EmailDispatch("render internal contact email", err)
	}
	internal.To = []string{s.salesInbox}
	internal.ReplyTo = c.Email

	client, err := s.renderer.ContactClient(c)
	if err != nil {
		return Result{}, apperr.EmailDispatch("render contact confirmation", err)
	}
	client.To = []string{c.Email}

	var res Result
	if res.InternalID, err = s.sender.Send(ctx, internal); err != nil {
		return Result{}, apperr.EmailDispatch("send internal contact email", err)
	}
	if res.ClientID, err = s.sender.Send(ctx, client); err != nil {
		return Result{}, apperr.EmailDispatch("send contact confirmation", err)
	}
	s.logger.Info("contact form dispatched",
		zap.String("internal_id", res.InternalID), zap.String("client_id", res.ClientID), zap.String("language", string(c.Language)))
	return res, nil
}
