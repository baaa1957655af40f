package models

// Tag labels posts through the post_tags join table.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Posts []Post `gorm:"many2many:post_tags" json:"posts,omitempty"`
}
