package models

// Category groups posts; a post may reference at most one category.
// Deleting a post never deletes its category.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Slug  string `json:"slug,omitempty"`
	Posts []Post `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}
