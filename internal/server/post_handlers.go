package server

import (
	"strconv"
	"strings"

	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns the paginated browse listing: page size 3, newest first,
// optional search and category filter, with the category list alongside so
// clients can render the filter control.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.PostFilter{
		Search:     c.Query("search"),
		CategoryID: parseOptionalUint(c, "category"),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	posts, total, err := s.postRepo.List(c.UserContext(), filter)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	categories, err := s.categoryRepo.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	return c.JSON(fiber.Map{
		"posts":       posts,
		"categories":  categories,
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": totalPages,
	})
}

// GetPost returns a single post with category, tags and comments.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetPostBySlug returns a single post looked up by its slug.
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	post, err := s.postService.GetPostBySlug(c.UserContext(), slug)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreatePost accepts a multipart form (name, description, category_id,
// tag_ids, featured_image) and creates a post authored by the caller.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	input := service.CreatePostInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		CategoryID:  parseFormUint(c, "category_id"),
		TagIDs:      parseFormUintList(c, "tag_ids"),
		Author:      s.currentUsername(c),
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	defer closeImage()
	input.Image = image

	post, err := s.postService.CreatePost(c.UserContext(), input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost accepts the same multipart form as CreatePost and replaces the
// post's fields. Only the author may update.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	input := service.UpdatePostInput{
		ID:          id,
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		CategoryID:  parseFormUint(c, "category_id"),
		TagIDs:      parseFormUintList(c, "tag_ids"),
		Actor:       s.currentUsername(c),
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	defer closeImage()
	input.Image = image

	post, err := s.postService.UpdatePost(c.UserContext(), input)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post and its comments. Only the author may delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.postService.DeletePost(c.UserContext(), id, s.currentUsername(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// AddComment appends a comment to a post, authored by the caller.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.UserContext(), id, req.Body, s.currentUsername(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// formImage extracts the optional featured_image file from a multipart form.
// The returned cleanup closes the underlying file and is safe to call always.
func formImage(c *fiber.Ctx) (*service.ImageUpload, func(), error) {
	noop := func() {}
	fileHeader, err := c.FormFile("featured_image")
	if err != nil {
		// Absent file means keep/assign the default image.
		return nil, noop, nil
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, noop, models.NewValidationError("Could not read uploaded file")
	}
	return &service.ImageUpload{Filename: fileHeader.Filename, Content: f}, func() { _ = f.Close() }, nil
}

// parseFormUint reads an optional positive integer form value.
func parseFormUint(c *fiber.Ctx, name string) *uint {
	raw := c.FormValue(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

// parseFormUintList reads a comma-separated or repeated form value of ids.
func parseFormUintList(c *fiber.Ctx, name string) []uint {
	raw := c.FormValue(name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(v))
	}
	return ids
}
