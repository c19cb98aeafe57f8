package newsletter

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/pagination"
	"github.com/soldertec/site/internal/pkg/response"
)

// MemoryStore is an in-process Store with failure and race hooks.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]models.SubscriberModel

	// Err, when set, is returned by every call.
	Err error
	// BeforeSwap runs before each CompareAndSwap while the lock is not held.
	BeforeSwap func(next *models.SubscriberModel)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[string]models.SubscriberModel{}}
}

func (m *MemoryStore) find(match func(models.SubscriberModel) bool) (*models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, r := range m.rows {
		if match(r) {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*models.SubscriberModel, error) {
	return m.find(func(r models.SubscriberModel) bool { return r.Email == email })
}

func (m *MemoryStore) FindByConfirmationToken(_ context.Context, token string) (*models.SubscriberModel, error) {
	return m.find(func(r models.SubscriberModel) bool { return r.ConfirmationToken == token })
}

func (m *MemoryStore) FindByUnsubscribeToken(_ context.Context, token string) (*models.SubscriberModel, error) {
	return m.find(func(r models.SubscriberModel) bool { return r.UnsubscribeToken == token })
}

func (m *MemoryStore) Create(_ context.Context, sub *models.SubscriberModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, r := range m.rows {
		if r.Email == sub.Email {
			return ErrDuplicate
		}
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now()
	sub.CreatedAt, sub.UpdatedAt, sub.Version = now, now, 0
	m.rows[sub.ID] = *sub
	return nil
}

func (m *MemoryStore) CompareAndSwap(_ context.Context, next *models.SubscriberModel, expected int64) (bool, error) {
	if m.BeforeSwap != nil {
		m.BeforeSwap(next)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	cur, ok := m.rows[next.ID]
	if !ok || cur.Version != expected {
		return false, nil
	}
	next.Version = expected + 1
	next.UpdatedAt = time.Now()
	next.CreatedAt = cur.CreatedAt
	m.rows[next.ID] = *next
	return true, nil
}

func (m *MemoryStore) snapshot(f Filter) ([]models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.SubscriberModel, 0, len(m.rows))
	for _, r := range m.rows {
		if f.Status != "" && r.State() != f.Status {
			continue
		}
		if f.Language != "" && r.Language != f.Language {
			continue
		}
		if search != "" && !strings.Contains(r.Email, search) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter, q pagination.Query) ([]models.SubscriberModel, response.Pagination, error) {
	rows, err := m.snapshot(f)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SubscribedAt.After(rows[j].SubscribedAt) })
	page, meta := pageOf(rows, q)
	return page, meta, nil
}

func (m *MemoryStore) Counts(_ context.Context) (Counts, error) {
	rows, err := m.snapshot(Filter{})
	if err != nil {
		return Counts{}, err
	}
	out := Counts{Total: int64(len(rows)), ActiveByLanguage: map[string]int64{}}
	for _, r := range rows {
		switch r.State() {
		case models.StateActive:
			out.Active++
			out.ActiveByLanguage[r.Language]++
		case models.StateUnsubscribed:
			out.Unsubscribed++
		}
	}
	return out, nil
}

func (m *MemoryStore) SubscribedSince(_ context.Context, since time.Time) ([]time.Time, error) {
	rows, err := m.snapshot(Filter{})
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for _, r := range rows {
		if !r.SubscribedAt.Before(since) {
			out = append(out, r.SubscribedAt)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListConfirmed(_ context.Context) ([]models.SubscriberModel, error) {
	rows, err := m.snapshot(Filter{Status: models.StateActive})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SubscribedAt.Before(rows[j].SubscribedAt) })
	return rows, nil
}

func (m *MemoryStore) DeletePendingBefore(_ context.Context, t time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for id, r := range m.rows {
		if !r.IsActive && r.ConfirmedAt == nil && r.UnsubscribedAt == nil && r.SubscribedAt.Before(t) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// Get returns a copy of the row with id, for assertions.
func (m *MemoryStore) Get(id string) (models.SubscriberModel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	return r, ok
}

// Len reports the number of stored rows.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func pageOf(rows []models.SubscriberModel, q pagination.Query) ([]models.SubscriberModel, response.Pagination) {
	q = pagination.Normalize(q)
	total := len(rows)
	start := min(q.Offset(), total)
	end := min(start+q.Size, total)
	return rows[start:end], pagination.Meta(int64(total), q)
}
