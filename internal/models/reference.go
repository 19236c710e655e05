package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Seller is a member of the sales staff. Orders keep a copy of the name,
// so deleting or renaming a seller never touches existing orders.
type Seller struct {
	OwnerID   string    `gorm:"primaryKey;size:64;uniqueIndex:idx_sellers_owner_name,priority:1" json:"-"`
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	// NameKey is the case-folded name backing the uniqueness index.
	NameKey string `gorm:"size:255;not null;uniqueIndex:idx_sellers_owner_name,priority:2" json:"-"`
}

// SellerNameKey folds a seller name for case-insensitive comparison.
func SellerNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeforeSave keeps NameKey in sync with Name.
func (s *Seller) BeforeSave(_ *gorm.DB) error {
	s.NameKey = SellerNameKey(s.Name)
	return nil
}

// NotificationContact receives the daily closing report.
type NotificationContact struct {
	OwnerID     string    `gorm:"primaryKey;size:64" json:"-"`
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	ContactName string    `gorm:"size:255;not null" json:"contactName"`
	Email       string    `gorm:"size:255;not null" json:"email"`
}
