package models

import "time"

// SubscriberState is derived from is_active, confirmed_at and unsubscribed_at.
type SubscriberState string

const (
	StatePending      SubscriberState = "pending"
	StateActive       SubscriberState = "active"
	StateUnsubscribed SubscriberState = "unsubscribed"
)

// SubscriberModel is one newsletter opt-in, keyed by normalized email.
type SubscriberModel struct {
	Base
	Email             string     `json:"email"           gorm:"size:320;uniqueIndex;not null"`
	Language          string     `json:"language"        gorm:"size:2;not null;index"`
	IsActive          bool       `json:"is_active"       gorm:"not null;index"`
	ConfirmationToken string     `json:"-"               gorm:"size:64;uniqueIndex;not null"`
	UnsubscribeToken  string     `json:"-"               gorm:"size:64;uniqueIndex;not null"`
	ConfirmedAt       *time.Time `json:"confirmed_at"`
	SubscribedAt      time.Time  `json:"subscribed_at"   gorm:"not null;index"`
	UnsubscribedAt    *time.Time `json:"unsubscribed_at"`
	// Version guards compare-and-swap updates.
	Version int64 `json:"-" gorm:"not null"`
}

func (SubscriberModel) TableName() string { return "newsletter_subscribers" }

// State reports the lifecycle state of the record.
func (s *SubscriberModel) State() SubscriberState {
	switch {
	case s.IsActive && s.ConfirmedAt != nil:
		return StateActive
	case !s.IsActive && s.UnsubscribedAt != nil:
		return StateUnsubscribed
	default:
		return StatePending
	}
}
