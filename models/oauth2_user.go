package models

import "time"

// OAuth2User is the denormalized record of a federated identity, keyed by
// "<userID>_<provider>". It links a User to the provider subject so further
// providers can be attached to the same account later.
type OAuth2User struct {
	ID            string     `gorm:"primaryKey;size:128" json:"id"`
	Email         string     `gorm:"size:255;not null;index" json:"email"`
	Name          string     `gorm:"size:255" json:"name"`
	FirstName     string     `gorm:"size:255" json:"firstName"`
	LastName      string     `gorm:"size:255" json:"lastName"`
	Picture       string     `gorm:"size:512" json:"picture"`
	Provider      string     `gorm:"size:64;not null" json:"provider"`
	ProviderID    string     `gorm:"size:255" json:"providerId"`
	EmailVerified bool       `json:"emailVerified"`
	Roles         RoleList   `json:"roles"`
	Enabled       bool       `gorm:"default:true;not null" json:"enabled"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}
