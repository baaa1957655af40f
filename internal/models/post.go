// Package models contains data structures for the application's domain models.
package models

import "time"

// Post is the central aggregate: a post together with its owned comments and
// non-owning references to a category and tags.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	Slug          string    `gorm:"index" json:"slug,omitempty"`
	Author        string    `gorm:"index" json:"author,omitempty"`
	CategoryID    *uint     `gorm:"index" json:"category_id,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags          []Tag     `gorm:"many2many:post_tags" json:"tags"`
	Comments      []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
