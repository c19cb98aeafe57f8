package newsletter

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/soldertec/site/internal/database"
	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/pagination"
	"github.com/soldertec/site/internal/pkg/response"
)

const (
	activeClause       = "is_active = ? AND confirmed_at IS NOT NULL"
	unsubscribedClause = "is_active = ? AND unsubscribed_at IS NOT NULL"
	pendingClause      = "NOT (is_active = ? AND confirmed_at IS NOT NULL) AND NOT (is_active = ? AND unsubscribed_at IS NOT NULL)"
)

// GormStore is the relational Store.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) findOne(ctx context.Context, query string, arg interface{}) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.WithContext(ctx).Where(query, arg).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.SubscriberModel, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *GormStore) FindByConfirmationToken(ctx context.Context, token string) (*models.SubscriberModel, error) {
	return s.findOne(ctx, "confirmation_token = ?", token)
}

func (s *GormStore) FindByUnsubscribeToken(ctx context.Context, token string) (*models.SubscriberModel, error) {
	return s.findOne(ctx, "unsubscribe_token = ?", token)
}

func (s *GormStore) Create(ctx context.Context, sub *models.SubscriberModel) error {
	sub.Version = 0
	err := s.db.WithContext(ctx).Create(sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) CompareAndSwap(ctx context.Context, next *models.SubscriberModel, expected int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.SubscriberModel{}).
		Where("id = ? AND version = ?", next.ID, expected).
		Updates(map[string]interface{}{
			"language":           next.Language,
			"is_active":          next.IsActive,
			"confirmation_token": next.ConfirmationToken,
			"unsubscribe_token":  next.UnsubscribeToken,
			"confirmed_at":       next.ConfirmedAt,
			"subscribed_at":      next.SubscribedAt,
			"unsubscribed_at":    next.UnsubscribedAt,
			"version":            expected + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	next.Version = expected + 1
	return true, nil
}

func (s *GormStore) filtered(ctx context.Context, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.SubscriberModel{})
	switch f.Status {
	case models.StateActive:
		q = q.Where(activeClause, true)
	case models.StateUnsubscribed:
		q = q.Where(unsubscribedClause, false)
	case models.StatePending:
		q = q.Where(pendingClause, true, false)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		q = q.Where("email LIKE ? ESCAPE '!'", database.Contains(strings.ToLower(v)))
	}
	return q
}

func (s *GormStore) List(ctx context.Context, f Filter, q pagination.Query) ([]models.SubscriberModel, response.Pagination, error) {
	var subs []models.SubscriberModel
	meta, err := pagination.Paginate(s.filtered(ctx, f).Order("subscribed_at DESC"), q, &subs)
	return subs, meta, err
}

func (s *GormStore) Counts(ctx context.Context) (Counts, error) {
	out := Counts{ActiveByLanguage: map[string]int64{}}
	if err := s.db.WithContext(ctx).Model(&models.SubscriberModel{}).Count(&out.Total).Error; err != nil {
		return out, err
	}
	if err := s.filtered(ctx, Filter{Status: models.StateUnsubscribed}).Count(&out.Unsubscribed).Error; err != nil {
		return out, err
	}

	var rows []struct {
		Language string
		N        int64
	}
	err := s.filtered(ctx, Filter{Status: models.StateActive}).
		Select("language, COUNT(*) AS n").
		Group("language").
		Scan(&rows).Error
	if err != nil {
		return out, err
	}
	for _, r := range rows {
		out.ActiveByLanguage[r.Language] = r.N
		out.Active += r.N
	}
	return out, nil
}

func (s *GormStore) SubscribedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var out []time.Time
	err := s.db.WithContext(ctx).Model(&models.SubscriberModel{}).
		Where("subscribed_at >= ?", since).
		Pluck("subscribed_at", &out).Error
	return out, err
}

func (s *GormStore) ListConfirmed(ctx context.Context) ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	err := s.filtered(ctx, Filter{Status: models.StateActive}).Order("subscribed_at ASC").Find(&subs).Error
	return subs, err
}

func (s *GormStore) DeletePendingBefore(ctx context.Context, t time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("is_active = ? AND confirmed_at IS NULL AND unsubscribed_at IS NULL AND subscribed_at < ?", false, t).
		Delete(&models.SubscriberModel{})
	return res.RowsAffected, res.Error
}
