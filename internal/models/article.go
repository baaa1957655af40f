package models

// Article is a standalone entity with independent CRUD, unrelated to posts.
type Article struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
	Characters    int    `json:"characters"`
	FeaturedImage string `json:"featured_image,omitempty"`
}
