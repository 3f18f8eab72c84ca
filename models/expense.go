package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense belongs to exactly one user, fixed at creation time. Category is
// a free-text label, not a foreign key.
type Expense struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:1024" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Category    string    `gorm:"size:255;not null;index" json:"category"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	UserID      string    `gorm:"size:64;not null;index" json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
