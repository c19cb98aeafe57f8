package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/blob"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/mail"
	"github.com/soldertec/site/internal/pkg/validate"
)

type presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration, filename string) (string, error)
}

// Request is a catalog download form submission.
type Request struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Email    string `json:"email"    validate:"required,emailshape,max=320"`
	Company  string `json:"company"  validate:"max=200"`
	Phone    string `json:"phone"    validate:"max=50"`
	Language string `json:"language"`
}

// Options configures where the catalogs live.
type Options struct {
	// Keys maps a language to its catalog object key.
	Keys map[string]string
	TTL  time.Duration
}

type Service struct {
	db        *gorm.DB
	files     presigner
	sender    mail.Sender
	renderer  *mail.Renderer
	validator *validate.Validator
	opts      Options
	logger    *zap.Logger
}

func NewService(db *gorm.DB, files presigner, sender mail.Sender, renderer *mail.Renderer, v *validate.Validator, opts Options, logger *zap.Logger) *Service {
	return &Service{db: db, files: files, sender: sender, renderer: renderer, validator: v, opts: opts, logger: logger}
}

// keyFor returns the catalog for lang, or the other language's one.
func (s *Service) keyFor(lang i18n.Lang) (string, bool) {
	if k := s.opts.Keys[string(lang)]; k != "" {
		return k, true
	}
	k := s.opts.Keys[string(lang.Other())]
	return k, k != ""
}

// Download records the lead, signs a download URL and emails it to the
// requester. The URL is also returned so the page can start the download.
func (s *Service) Download(ctx context.Context, req Request, ip string) (string, error) {
	for _, f := range []*string{&req.Name, &req.Email, &req.Company, &req.Phone, &req.Language} {
		*f = strings.TrimSpace(*f)
	}
	if err := s.validator.Struct(&req); err != nil {
		return "", err
	}
	lang := i18n.Normalize(req.Language)
	email := strings.ToLower(req.Email)

	key, ok := s.keyFor(lang)
	if !ok || s.files == nil {
		return "", &apperr.Error{Kind: apperr.ErrUnavailable, Message: "catalog is not configured"}
	}
	url, err := s.files.PresignGet(ctx, key, s.opts.TTL, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return "", apperr.NotFound("catalog")
		}
		return "", &apperr.Error{Kind: apperr.ErrUnavailable, Message: "catalog storage unavailable", Err: err}
	}

	lead := models.CatalogRequestModel{
		Name:     req.Name,
		Email:    email,
		Company:  req.Company,
		Phone:    req.Phone,
		Language: string(lang),
		IP:       ip,
	}
	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return "", apperr.Persistence("record catalog request", err)
	}

	msg, err := s.renderer.CatalogDownload(lang, req.Name, url, s.opts.TTL)
	if err != nil {
		return "", apperr.EmailDispatch("render catalog email", err)
	}
	msg.To = []string{email}
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return "", apperr.EmailDispatch("send catalog email", err)
	}
	s.logger.Info("catalog link sent",
		zap.String("request_id", lead.ID), zap.String("message_id", id), zap.String("language", string(lang)))
	return url, nil
}
