// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// CustomerRole defines the authorization role of a customer.
type CustomerRole string

const (
	// CustomerRoleUser is the default role for registered customers.
	CustomerRoleUser CustomerRole = "user"
	// CustomerRoleAdmin grants moderation rights across all customers and posts.
	CustomerRoleAdmin CustomerRole = "admin"
)

// Customer represents a registered account.
type Customer struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	Name     string       `gorm:"size:120;not null" json:"name"`
	Email    string       `gorm:"size:254;unique;not null" json:"email"`
	Password string       `gorm:"not null" json:"-"`
	Role     CustomerRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	// DisplayName is resolved once at write time and is the only name the API
	// exposes for attribution.
	DisplayName    string    `gorm:"size:120;not null" json:"display_name"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:CustomerID" json:"posts,omitempty"`
}

// IsAdmin reports whether the customer holds the admin role.
func (c *Customer) IsAdmin() bool {
	return c.Role == CustomerRoleAdmin
}

// ResolveDisplayName picks the canonical display name for a customer at write
// time: the trimmed name if present, otherwise the local part of the email.
func ResolveDisplayName(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
