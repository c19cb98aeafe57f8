package models

// CatalogRequestModel logs a catalog download lead.
type CatalogRequestModel struct {
	Base
	Name     string `json:"name"     gorm:"not null"`
	Email    string `json:"email"    gorm:"size:320;not null;index"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Language string `json:"language" gorm:"size:2;not null"`
	IP       string `json:"ip"       gorm:"size:64"`
}

func (CatalogRequestModel) TableName() string { return "catalog_requests" }
