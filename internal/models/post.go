package models

import (
	"time"

	"communityapi/internal/reaction"
)

// Post represents a text post inside a community, optionally carrying media.
//
// LikeCount and DislikeCount are persisted denormalized counters. They are
// only ever mutated through atomic SQL expressions in the repository layer so
// they stay equal to the number of matching reaction records and never go
// negative.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	Customer    *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CommunityID uint       `gorm:"not null;index:idx_posts_community_created" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	MediaURL    string     `json:"media_url,omitempty"`

	LikeCount    int `gorm:"not null;default:0" json:"like_count"`
	DislikeCount int `gorm:"not null;default:0" json:"dislike_count"`

	// UserReaction is the requesting customer's own reaction; computed at
	// query time, never persisted.
	UserReaction reaction.Type `gorm:"-" json:"user_reaction"`

	CreatedAt time.Time `gorm:"index:idx_posts_community_created,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostReaction records a single customer's reaction to a single post.
// The (CustomerID, PostID) pair is unique: existence of the record implies
// exactly one reaction, absence implies none.
type PostReaction struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	CustomerID uint          `gorm:"not null;uniqueIndex:idx_customer_post" json:"customer_id"`
	PostID     uint          `gorm:"not null;uniqueIndex:idx_customer_post;index" json:"post_id"`
	Type       reaction.Type `gorm:"type:varchar(10);not null" json:"type"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
