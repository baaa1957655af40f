package server

import (
	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// The blog API responds with flattened shapes rather than the raw models so
// its contract stays stable if the storage layout changes.

type categoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type tagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type commentResponse struct {
	ID     uint   `json:"id"`
	Body   string `json:"body"`
	Author string `json:"author,omitempty"`
}

type postResponse struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	FeaturedImage string            `json:"featured_image,omitempty"`
	Slug          string            `json:"slug,omitempty"`
	Author        string            `json:"author,omitempty"`
	Category      *categoryResponse `json:"category,omitempty"`
	Tags          []tagResponse     `json:"tags"`
	Comments      []commentResponse `json:"comments,omitempty"`
}

func toPostResponse(post *models.Post, includeComments bool) postResponse {
	resp := postResponse{
		ID:            post.ID,
		Name:          post.Name,
		Description:   post.Description,
		FeaturedImage: post.FeaturedImage,
		Slug:          post.Slug,
		Author:        post.Author,
		Tags:          make([]tagResponse, 0, len(post.Tags)),
	}
	if post.Category != nil {
		resp.Category = &categoryResponse{
			ID:   post.Category.ID,
			Name: post.Category.Name,
			Slug: post.Category.Slug,
		}
	}
	for _, t := range post.Tags {
		resp.Tags = append(resp.Tags, tagResponse{ID: t.ID, Name: t.Name})
	}
	if includeComments {
		resp.Comments = make([]commentResponse, 0, len(post.Comments))
		for _, cm := range post.Comments {
			resp.Comments = append(resp.Comments, commentResponse{
				ID:     cm.ID,
				Body:   cm.Body,
				Author: cm.Author,
			})
		}
	}
	return resp
}

type blogPostRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  *uint  `json:"category_id"`
	TagIDs      []uint `json:"tag_ids"`
}

// BlogListPosts returns all matching posts unpaginated. Supported query
// params: search (name/description/slug), category (name or slug),
// include=comments.
func (s *Server) BlogListPosts(c *fiber.Ctx) error {
	includeComments := c.Query("include") == "comments"
	filter := repository.PostFilter{
		Search:          c.Query("search"),
		SearchSlug:      true,
		Category:        c.Query("category"),
		IncludeComments: includeComments,
	}

	posts, _, err := s.postService.ListPosts(c.UserContext(), filter)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p, includeComments))
	}
	return c.JSON(out)
}

// BlogGetPost returns one post; comments attach only with include=comments.
func (s *Server) BlogGetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toPostResponse(post, c.Query("include") == "comments"))
}

// BlogGetComments returns a post's comments.
func (s *Server) BlogGetComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	comments, err := s.postService.ListComments(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	out := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentResponse{ID: cm.ID, Body: cm.Body, Author: cm.Author})
	}
	return c.JSON(out)
}

// BlogCreatePost creates a post from a JSON body. The featured image always
// starts as the default; the multipart endpoint handles file uploads.
func (s *Server) BlogCreatePost(c *fiber.Ctx) error {
	var req blogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
		Author:      s.currentUsername(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(post, false))
}

// BlogUpdatePost updates a post from a JSON body. Omitted category_id or
// tag_ids keep the stored values. Only the author may update.
func (s *Server) BlogUpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req blogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.PatchPost(c.UserContext(), service.PatchPostInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
		Actor:       s.currentUsername(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(toPostResponse(post, false))
}

// BlogDeletePost deletes a post. Only the author may delete.
func (s *Server) BlogDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.postService.DeletePost(c.UserContext(), id, s.currentUsername(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
