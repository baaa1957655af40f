package server

import (
	"errors"

	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type articleRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Characters    int    `json:"characters"`
	FeaturedImage string `json:"featured_image"`
}

// GetArticles returns all articles.
func (s *Server) GetArticles(c *fiber.Ctx) error {
	articles, err := s.articleRepo.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.JSON(articles)
}

// GetArticle returns one article by id.
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	article, err := s.articleRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondServiceError(c, models.NewNotFoundError("Article", id))
		}
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.JSON(article)
}

// CreateArticle persists a new article.
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req articleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return respondServiceError(c, models.NewValidationError("Name is required"))
	}

	article := &models.Article{
		Name:          req.Name,
		Description:   req.Description,
		Characters:    req.Characters,
		FeaturedImage: req.FeaturedImage,
	}
	if err := s.articleRepo.Create(c.UserContext(), article); err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// UpdateArticle replaces an article's fields. When the save fails, the row is
// re-checked: a concurrent delete yields 404, anything else propagates.
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req articleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondServiceError(c, models.NewNotFoundError("Article", id))
		}
		return respondServiceError(c, models.NewInternalError(err))
	}

	article.Name = req.Name
	article.Description = req.Description
	article.Characters = req.Characters
	article.FeaturedImage = req.FeaturedImage

	if err := s.articleRepo.Update(c.UserContext(), article); err != nil {
		exists, checkErr := s.articleRepo.Exists(c.UserContext(), id)
		if checkErr == nil && !exists {
			return respondServiceError(c, models.NewNotFoundError("Article", id))
		}
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.JSON(article)
}

// DeleteArticle removes an article by id.
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}
	if _, err := s.articleRepo.GetByID(c.UserContext(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondServiceError(c, models.NewNotFoundError("Article", id))
		}
		return respondServiceError(c, models.NewInternalError(err))
	}
	if err := s.articleRepo.Delete(c.UserContext(), id); err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
