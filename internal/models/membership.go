package models

import "time"

// Membership maps a customer to a community they joined.
// The compound primary key enforces at most one record per pair.
type Membership struct {
	CustomerID  uint       `gorm:"primaryKey;autoIncrement:false" json:"customer_id"`
	Customer    *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CommunityID uint       `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	JoinedAt    time.Time  `gorm:"autoCreateTime" json:"joined_at"`
}
