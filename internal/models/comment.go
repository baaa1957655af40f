package models

import "time"

// Comment belongs to exactly one post and is removed with it. Author is the
// commenting user's name as free text, not a foreign key.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Body      string    `gorm:"type:text" json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
