package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/mail"
	"github.com/soldertec/site/internal/pkg/pagination"
	"github.com/soldertec/site/internal/pkg/response"
	"github.com/soldertec/site/internal/pkg/token"
	"github.com/soldertec/site/internal/pkg/validate"
)

// maxAttempts bounds how often a transition is re-evaluated after losing a
// compare-and-swap race.
const maxAttempts = 3

// Outcome is the result of a Subscribe call.
type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyActive Outcome = "already_active"
	OutcomeReactivated   Outcome = "reactivated"
	OutcomeResent        Outcome = "resent"
)

type ConfirmResult string

const (
	ConfirmDone    ConfirmResult = "confirmed"
	ConfirmAlready ConfirmResult = "already_confirmed"
)

type UnsubscribeResult string

const (
	// UnsubscribePrompt asks the visitor to confirm with a POST.
	UnsubscribePrompt  UnsubscribeResult = "prompt"
	UnsubscribeDone    UnsubscribeResult = "unsubscribed"
	UnsubscribeAlready UnsubscribeResult = "already_unsubscribed"
)

// Options configures Service.
type Options struct {
	SiteURL string
	// RotateUnsubscribeToken issues a new unsubscribe token on reactivation.
	RotateUnsubscribeToken bool
}

// Service implements the subscription lifecycle.
type Service struct {
	store    Store
	sender   mail.Sender
	renderer *mail.Renderer
	posts    PostSource
	logger   *zap.Logger
	opts     Options
	now      func() time.Time
	newToken func() (string, error)
}

func NewService(store Store, sender mail.Sender, renderer *mail.Renderer, logger *zap.Logger, opts Options) *Service {
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	return &Service{
		store:    store,
		sender:   sender,
		renderer: renderer,
		logger:   logger,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
		newToken: token.New,
	}
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) validate(email, lang string) (string, i18n.Lang, error) {
	email = NormalizeEmail(email)
	if !validate.EmailShape(email) {
		return "", "", apperr.Validation("invalid email address", "email")
	}
	l, ok := i18n.ParseLang(lang)
	if !ok {
		return "", "", apperr.Validation("language must be one of es, en", "language")
	}
	return email, l, nil
}

// Subscribe records an opt-in for email and sends the confirmation email
// when the record is new, pending or reactivated.
func (s *Service) Subscribe(ctx context.Context, email, lang string) (Outcome, error) {
	email, l, err := s.validate(email, lang)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		cur, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			return "", apperr.Persistence("find subscriber", err)
		}

		if cur == nil {
			sub, err := s.newSubscriber(email, l)
			if err != nil {
				return "", err
			}
			if err := s.store.Create(ctx, sub); err != nil {
				if errors.Is(err, ErrDuplicate) {
					continue
				}
				return "", apperr.Persistence("create subscriber", err)
			}
			return OutcomeCreated, s.sendConfirmation(ctx, sub)
		}

		next := *cur
		var outcome Outcome
		switch cur.State() {
		case models.StateActive:
			return OutcomeAlreadyActive, nil
		case models.StateUnsubscribed:
			outcome = OutcomeReactivated
			if s.opts.RotateUnsubscribeToken {
				if next.UnsubscribeToken, err = s.newToken(); err != nil {
					return "", apperr.Persistence("generate token", err)
				}
			}
			next.IsActive = false
			next.ConfirmedAt = nil
			next.UnsubscribedAt = nil
			next.SubscribedAt = s.now()
		default:
			outcome = OutcomeResent
		}
		next.Language = string(l)
		if next.ConfirmationToken, err = s.newToken(); err != nil {
			return "", apperr.Persistence("generate token", err)
		}

		swapped, err := s.store.CompareAndSwap(ctx, &next, cur.Version)
		if err != nil {
			return "", apperr.Persistence("update subscriber", err)
		}
		if !swapped {
			continue
		}
		return outcome, s.sendConfirmation(ctx, &next)
	}
	return "", apperr.Conflict("subscription is being modified concurrently, retry")
}

func (s *Service) newSubscriber(email string, lang i18n.Lang) (*models.SubscriberModel, error) {
	confirmation, err := s.newToken()
	if err != nil {
		return nil, apperr.Persistence("generate token", err)
	}
	unsubscribe, err := s.newToken()
	if err != nil {
		return nil, apperr.Persistence("generate token", err)
	}
	return &models.SubscriberModel{
		Email:             email,
		Language:          string(lang),
		ConfirmationToken: confirmation,
		UnsubscribeToken:  unsubscribe,
		SubscribedAt:      s.now(),
	}, nil
}

// Confirm activates the pending subscriber holding token.
func (s *Service) Confirm(ctx context.Context, tok string) (ConfirmResult, *models.SubscriberModel, error) {
	if tok == "" {
		return "", nil, apperr.Validation("missing token", "token")
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cur, err := s.store.FindByConfirmationToken(ctx, tok)
		if err != nil {
			return "", nil, apperr.Persistence("find subscriber", err)
		}
		// A confirmation link is stale once its subscription was cancelled.
		if cur == nil || cur.State() == models.StateUnsubscribed {
			return "", nil, apperr.NotFound("subscription")
		}
		if cur.State() == models.StateActive {
			return ConfirmAlready, cur, nil
		}

		next := *cur
		now := s.now()
		next.IsActive = true
		next.ConfirmedAt = &now
		swapped, err := s.store.CompareAndSwap(ctx, &next, cur.Version)
		if err != nil {
			return "", nil, apperr.Persistence("confirm subscriber", err)
		}
		if !swapped {
			continue
		}
		s.sendWelcome(ctx, &next)
		return ConfirmDone, &next, nil
	}
	return "", nil, apperr.Conflict("subscription is being modified concurrently, retry")
}

// UnsubscribePreview looks up the token without changing state.
func (s *Service) UnsubscribePreview(ctx context.Context, tok string) (UnsubscribeResult, *models.SubscriberModel, error) {
	if tok == "" {
		return "", nil, apperr.Validation("missing token", "token")
	}
	cur, err := s.store.FindByUnsubscribeToken(ctx, tok)
	if err != nil {
		return "", nil, apperr.Persistence("find subscriber", err)
	}
	if cur == nil {
		return "", nil, apperr.NotFound("subscription")
	}
	if cur.State() == models.StateUnsubscribed {
		return UnsubscribeAlready, cur, nil
	}
	return UnsubscribePrompt, cur, nil
}

// Unsubscribe deactivates the subscriber holding token. Repeating it is a
// no-op reporting UnsubscribeAlready.
func (s *Service) Unsubscribe(ctx context.Context, tok string) (UnsubscribeResult, *models.SubscriberModel, error) {
	if tok == "" {
		return "", nil, apperr.Validation("missing token", "token")
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cur, err := s.store.FindByUnsubscribeToken(ctx, tok)
		if err != nil {
			return "", nil, apperr.Persistence("find subscriber", err)
		}
		if cur == nil {
			return "", nil, apperr.NotFound("subscription")
		}
		if cur.State() == models.StateUnsubscribed {
			return UnsubscribeAlready, cur, nil
		}

		next := *cur
		now := s.now()
		next.IsActive = false
		next.UnsubscribedAt = &now
		swapped, err := s.store.CompareAndSwap(ctx, &next, cur.Version)
		if err != nil {
			return "", nil, apperr.Persistence("unsubscribe", err)
		}
		if swapped {
			return UnsubscribeDone, &next, nil
		}
	}
	return "", nil, apperr.Conflict("subscription is being modified concurrently, retry")
}

// Subscribers lists subscribers for the admin area.
func (s *Service) Subscribers(ctx context.Context, f Filter, q pagination.Query) ([]models.SubscriberModel, response.Pagination, error) {
	if f.Status != "" && f.Status != models.StateActive && f.Status != models.StatePending && f.Status != models.StateUnsubscribed {
		return nil, response.Pagination{}, apperr.Validation("status must be one of active, pending, unsubscribed", "status")
	}
	if f.Language != "" {
		if _, ok := i18n.ParseLang(f.Language); !ok {
			return nil, response.Pagination{}, apperr.Validation("language must be one of es, en", "language")
		}
	}
	subs, meta, err := s.store.List(ctx, f, q)
	if err != nil {
		return nil, response.Pagination{}, apperr.Persistence("list subscribers", err)
	}
	return subs, meta, nil
}

// PurgeStalePending deletes pending records older than olderThan.
func (s *Service) PurgeStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	n, err := s.store.DeletePendingBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, apperr.Persistence("purge pending subscribers", err)
	}
	return n, nil
}

func (s *Service) sendConfirmation(ctx context.Context, sub *models.SubscriberModel) error {
	msg, err := s.renderer.NewsletterConfirm(i18n.Normalize(sub.Language), s.link("confirm", sub.ConfirmationToken))
	if err != nil {
		return apperr.EmailDispatch("render confirmation", err)
	}
	msg.To = []string{sub.Email}
	if _, err := s.sender.Send(ctx, msg); err != nil {
		return apperr.EmailDispatch("send confirmation", err)
	}
	return nil
}

func (s *Service) sendWelcome(ctx context.Context, sub *models.SubscriberModel) {
	msg, err := s.renderer.NewsletterWelcome(i18n.Normalize(sub.Language), s.UnsubscribeURL(sub.UnsubscribeToken))
	if err == nil {
		msg.To = []string{sub.Email}
		_, err = s.sender.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Warn("newsletter welcome email failed", zap.String("subscriber", sub.ID), zap.Error(err))
	}
}

// UnsubscribeURL is the one-click link embedded in every newsletter email.
func (s *Service) UnsubscribeURL(tok string) string {
	return s.link("unsubscribe", tok)
}

func (s *Service) link(action, tok string) string {
	return fmt.Sprintf("%s/api/newsletter/%s?token=%s", s.opts.SiteURL, action, url.QueryEscape(tok))
}
