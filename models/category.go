package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is an expense category. Expense.Category references categories
// by name only, so deleting a category never orphans expenses.
type Category struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	Color       string `gorm:"size:16" json:"color"` // hex color for the UI
	Icon        string `gorm:"size:16" json:"icon"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
