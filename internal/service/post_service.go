// Package service implements the application's domain operations on top of
// the repositories.
package service

import (
	"context"
	"errors"
	"io"

	"chronicle/internal/cache"
	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"
	"chronicle/internal/slug"
	"chronicle/internal/storage"

	"gorm.io/gorm"
)

// ImageUpload is an uploaded featured image file.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// CreatePostInput carries everything needed to create a post.
type CreatePostInput struct {
	Name        string
	Description string
	CategoryID  *uint
	TagIDs      []uint
	Author      string
	Image       *ImageUpload
}

// UpdatePostInput mutates an existing post. Actor must equal the stored author.
type UpdatePostInput struct {
	ID          uint
	Name        string
	Description string
	CategoryID  *uint
	TagIDs      []uint
	Actor       string
	Image       *ImageUpload
}

// PostService implements post CRUD with ownership checks, slug derivation
// and featured image handling.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	commentRepo  repository.CommentRepository
	uploads      *storage.Uploads
}

// NewPostService creates a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	commentRepo repository.CommentRepository,
	uploads *storage.Uploads,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		commentRepo:  commentRepo,
		uploads:      uploads,
	}
}

// GetPost returns the full post aggregate, served cache-aside: a hit skips
// the database, a miss loads and populates the cache.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		loaded, loadErr := s.getExisting(ctx, id)
		if loadErr != nil {
			return loadErr
		}
		post = *loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostBySlug returns the full post aggregate looked up by slug.
func (s *PostService) GetPostBySlug(ctx context.Context, slugValue string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", slugValue)
		}
		return nil, err
	}
	return post, nil
}

// ListPosts proxies the repository listing.
func (s *PostService) ListPosts(ctx context.Context, filter repository.PostFilter) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, filter)
}

// ListComments returns a post's comments, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.getExisting(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// CreatePost resolves category and tags, derives the slug from the name,
// stores the featured image (or records the default) and persists the post
// with the acting user as author.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Name == "" || in.Description == "" {
		return nil, models.NewValidationError("Name and description are required")
	}

	category, categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.GetByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	featuredImage := storage.DefaultImage
	if in.Image != nil {
		stored, storeErr := s.uploads.Store(in.Image.Filename, in.Image.Content, in.Author)
		if storeErr != nil {
			observability.UploadsTotal.WithLabelValues("rejected").Inc()
			return nil, storeErr
		}
		observability.UploadsTotal.WithLabelValues("stored").Inc()
		featuredImage = stored
	}

	post := &models.Post{
		Name:          in.Name,
		Description:   in.Description,
		FeaturedImage: featuredImage,
		Slug:          slug.Generate(in.Name),
		Author:        in.Author,
		CategoryID:    categoryID,
		Category:      category,
		Tags:          tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.PostsCreated.Inc()
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost mutates name, description, category, tags and (when a new file
// is given) the featured image, recomputing the slug. Only the stored author
// may update; a rejected image leaves the post unchanged.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.loadOwned(ctx, in.ID, in.Actor)
	if err != nil {
		return nil, err
	}

	if in.Name == "" || in.Description == "" {
		return nil, models.NewValidationError("Name and description are required")
	}

	if in.Image != nil {
		stored, storeErr := s.uploads.Store(in.Image.Filename, in.Image.Content, in.Actor)
		if storeErr != nil {
			observability.UploadsTotal.WithLabelValues("rejected").Inc()
			return nil, storeErr
		}
		observability.UploadsTotal.WithLabelValues("stored").Inc()
		post.FeaturedImage = stored
	}

	category, categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.GetByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	post.Name = in.Name
	post.Description = in.Description
	post.Slug = slug.Generate(in.Name)
	post.CategoryID = categoryID
	post.Category = category
	post.Tags = tags

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, post.ID)

	return s.postRepo.GetByID(ctx, post.ID)
}

// PatchPostInput is the API update shape: nil CategoryID or TagIDs keep the
// stored values instead of clearing them.
type PatchPostInput struct {
	ID          uint
	Name        string
	Description string
	CategoryID  *uint
	TagIDs      []uint
	Actor       string
}

// PatchPost applies the JSON API's update semantics: name and description are
// replaced and the slug recomputed; category and tags change only when the
// request provided them.
func (s *PostService) PatchPost(ctx context.Context, in PatchPostInput) (*models.Post, error) {
	post, err := s.loadOwned(ctx, in.ID, in.Actor)
	if err != nil {
		return nil, err
	}

	if in.Name == "" || in.Description == "" {
		return nil, models.NewValidationError("Name and description are required")
	}

	if in.CategoryID != nil {
		category, categoryID, resolveErr := s.resolveCategory(ctx, in.CategoryID)
		if resolveErr != nil {
			return nil, resolveErr
		}
		post.CategoryID = categoryID
		post.Category = category
	}
	if in.TagIDs != nil {
		tags, tagErr := s.tagRepo.GetByIDs(ctx, in.TagIDs)
		if tagErr != nil {
			return nil, tagErr
		}
		post.Tags = tags
	}

	post.Name = in.Name
	post.Description = in.Description
	post.Slug = slug.Generate(in.Name)

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, post.ID)

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes the post and its comments; category and tags survive.
// Only the stored author may delete.
func (s *PostService) DeletePost(ctx context.Context, id uint, actor string) error {
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// AddComment appends a comment authored by the acting user. The body must
// not be empty.
func (s *PostService) AddComment(ctx context.Context, postID uint, body, author string) (*models.Comment, error) {
	if _, err := s.getExisting(ctx, postID); err != nil {
		return nil, err
	}
	if body == "" {
		return nil, models.NewValidationError("Comment must not be empty")
	}

	comment := &models.Comment{
		PostID: postID,
		Body:   body,
		Author: author,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, postID)
	observability.CommentsCreated.Inc()
	return comment, nil
}

func (s *PostService) getExisting(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) loadOwned(ctx context.Context, id uint, actor string) (*models.Post, error) {
	post, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != actor {
		return nil, models.NewForbiddenError("Only the author may modify this post")
	}
	return post, nil
}

// resolveCategory maps an optional category id to the stored category; an
// unknown id degrades to no category, mirroring a nullable lookup.
func (s *PostService) resolveCategory(ctx context.Context, id *uint) (*models.Category, *uint, error) {
	if id == nil {
		return nil, nil, nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, nil
	}
	return category, &category.ID, nil
}
