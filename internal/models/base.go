package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for all entities. Rows are hard-deleted; unique
// slugs and emails must be reusable after removal.
type Base struct {
	ID        string    `json:"id"         gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&SubscriberModel{},
		&CategoryModel{},
		&TagModel{},
		&PostModel{},
		&PostContentModel{},
		&CatalogRequestModel{},
	}
}
