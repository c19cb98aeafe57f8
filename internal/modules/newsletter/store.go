package newsletter

import (
	"context"
	"errors"
	"time"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/pagination"
	"github.com/soldertec/site/internal/pkg/response"
)

// ErrDuplicate is returned by Store.Create when the email already exists.
var ErrDuplicate = errors.New("newsletter: subscriber already exists")

// Filter narrows the admin subscriber list.
type Filter struct {
	Status   models.SubscriberState
	Language string
	// Search matches a substring of the email.
	Search string
}

// Counts aggregates subscribers by state.
type Counts struct {
	Total            int64
	Active           int64
	Unsubscribed     int64
	ActiveByLanguage map[string]int64
}

// Store persists subscribers. Finders return (nil, nil) when nothing
// matches.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.SubscriberModel, error)
	FindByConfirmationToken(ctx context.Context, token string) (*models.SubscriberModel, error)
	FindByUnsubscribeToken(ctx context.Context, token string) (*models.SubscriberModel, error)
	// Create inserts sub with version 0 or returns ErrDuplicate.
	Create(ctx context.Context, sub *models.SubscriberModel) error
	// CompareAndSwap writes every mutable field of next only if the stored
	// version still equals expected. On success next.Version is advanced.
	CompareAndSwap(ctx context.Context, next *models.SubscriberModel, expected int64) (bool, error)
	List(ctx context.Context, f Filter, q pagination.Query) ([]models.SubscriberModel, response.Pagination, error)
	Counts(ctx context.Context) (Counts, error)
	// SubscribedSince returns subscribed_at of every record at or after since.
	SubscribedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	// ListConfirmed returns every active, confirmed subscriber.
	ListConfirmed(ctx context.Context) ([]models.SubscriberModel, error)
	// DeletePendingBefore removes never-confirmed records subscribed before t.
	DeletePendingBefore(ctx context.Context, t time.Time) (int64, error)
}
