// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero values mean "no constraint".
type PostFilter struct {
	// Search matches name/description case-insensitively; when SearchSlug is
	// set the slug column participates too (API behavior).
	Search     string
	SearchSlug bool
	// CategoryID filters by exact category id (browse path).
	CategoryID *uint
	// Category filters by category name or slug (API path).
	Category string
	// IncludeComments preloads each post's comments (API include=comments).
	IncludeComments bool
	// Limit <= 0 disables pagination.
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID loads the full aggregate: category, tags and comments.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Comments").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Comments").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts ordered by descending id with category and tags eagerly
// attached, plus the total row count before pagination.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		if filter.SearchSlug {
			q = q.Where(
				"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(slug) LIKE ?",
				like, like, like,
			)
		} else {
			q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Category != "" {
		q = q.Where(
			"category_id IN (SELECT id FROM categories WHERE name = ? OR slug = ?)",
			filter.Category, filter.Category,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Category").Preload("Tags").Order("id DESC")
	if filter.IncludeComments {
		q = q.Preload("Comments")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var posts []*models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update persists scalar fields and replaces the tag association so removed
// tags are detached rather than accumulated.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Comments").Save(post).Error; err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(post.Tags)
	})
}

// Delete removes the post, its owned comments and its join-table rows.
// Categories and tags themselves are untouched.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
