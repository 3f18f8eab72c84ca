package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleList stores a user's roles as a comma separated column while keeping
// the JSON representation a plain array.
type RoleList []string

func (r RoleList) Value() (driver.Value, error) {
	return strings.Join(r, ","), nil
}

func (r *RoleList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
	case string:
		if v == "" {
			*r = nil
		} else {
			*r = strings.Split(v, ",")
		}
	case []byte:
		return r.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan roles from %T", src)
	}
	return nil
}

// User is an account created either through registration or a first
// OAuth2 login. Password is empty for OAuth2-only accounts and never
// serialized.
type User struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	Username    string     `gorm:"size:255;uniqueIndex" json:"username"`
	Email       string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string     `gorm:"size:255" json:"-"` // bcrypt hash
	FirstName   string     `gorm:"size:255" json:"firstName"`
	LastName    string     `gorm:"size:255" json:"lastName"`
	Roles       RoleList   `json:"roles"`
	Enabled     bool       `gorm:"default:true;not null" json:"enabled"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
