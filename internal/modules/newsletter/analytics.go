package newsletter

import (
	"context"
	"time"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
)

const analyticsMonths = 12

// MonthlyCount is the number of subscriptions started in one month.
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type Analytics struct {
	Total            int64            `json:"total"`
	Active           int64            `json:"active"`
	Pending          int64            `json:"pending"`
	Unsubscribed     int64            `json:"unsubscribed"`
	ActiveByLanguage map[string]int64 `json:"activeByLanguage"`
	Monthly          []MonthlyCount   `json:"monthly"`
}

// Analytics summarizes the subscriber base for the admin dashboard.
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return nil, apperr.Persistence("count subscribers", err)
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(analyticsMonths - 1), 0)
	stamps, err := s.store.SubscribedSince(ctx, start)
	if err != nil {
		return nil, apperr.Persistence("load subscription history", err)
	}

	monthly := make([]MonthlyCount, analyticsMonths)
	index := make(map[string]int, analyticsMonths)
	for i := range monthly {
		key := start.AddDate(0, i, 0).Format("2006-01")
		monthly[i].Month = key
		index[key] = i
	}
	for _, ts := range stamps {
		if i, ok := index[ts.UTC().Format("2006-01")]; ok {
			monthly[i].Count++
		}
	}

	byLang := make(map[string]int64, len(i18n.Supported))
	for _, l := range i18n.Supported {
		byLang[string(l)] = counts.ActiveByLanguage[string(l)]
	}

	return &Analytics{
		Total:            counts.Total,
		Active:           counts.Active,
		Pending:          counts.Total - counts.Active - counts.Unsubscribed,
		Unsubscribed:     counts.Unsubscribed,
		ActiveByLanguage: byLang,
		Monthly:          monthly,
	}, nil
}
