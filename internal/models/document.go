package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document holds a record of a collection this application has no typed
// model for. Backups may carry such collections and they are restored and
// exported verbatim.
type Document struct {
	OwnerID    string            `gorm:"primaryKey;size:64"`
	Collection string            `gorm:"primaryKey;size:100"`
	ID         string            `gorm:"primaryKey;size:255"`
	CreatedAt  time.Time
	Data       datatypes.JSONMap `gorm:"not null"`
}
