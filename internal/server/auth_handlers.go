package server

import (
	"time"

	"chronicle/internal/models"
	"chronicle/internal/token"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerUser validates and persists a new account with a hashed password.
func (s *Server) registerUser(c *fiber.Ctx) (*models.User, error) {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	existing, err := s.userRepo.GetByUsername(c.UserContext(), req.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, &models.AppError{Code: "VALIDATION_ERROR", Message: "Username already taken"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: req.Username, Password: string(hash)}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// loginUser checks credentials and returns a signed token.
func (s *Server) loginUser(c *fiber.Ctx) (string, error) {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return "", models.NewValidationError("Invalid request body")
	}

	user, err := s.userRepo.GetByUsername(c.UserContext(), req.Username)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if user == nil {
		return "", models.NewUnauthorizedError("Invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return "", models.NewUnauthorizedError("Invalid username or password")
	}

	signed, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

func (s *Server) setAuthCookie(c *fiber.Ctx, signed string) {
	c.Cookie(&fiber.Cookie{
		Name:     token.CookieName,
		Value:    signed,
		Expires:  time.Now().Add(time.Duration(s.config.JWTExpireDays) * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// Register handles account creation for the browser flow. The new account is
// signed in immediately: the jwt cookie is set and the token returned.
func (s *Server) Register(c *fiber.Ctx) error {
	user, err := s.registerUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	signed, err := s.tokens.Issue(user.Username)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	s.setAuthCookie(c, signed)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"token":    signed,
	})
}

// Login authenticates, sets the jwt cookie and also returns the token so
// non-browser clients can use the Authorization header instead.
func (s *Server) Login(c *fiber.Ctx) error {
	signed, err := s.loginUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	s.setAuthCookie(c, signed)
	return c.JSON(fiber.Map{"token": signed})
}

// Logout clears the jwt cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     token.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Profile returns the authenticated user's account.
func (s *Server) Profile(c *fiber.Ctx) error {
	username := s.currentUsername(c)
	user, err := s.userRepo.GetByUsername(c.UserContext(), username)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	if user == nil {
		return respondServiceError(c, models.NewUnauthorizedError("Account no longer exists"))
	}
	return c.JSON(user)
}

// BlogRegister is the JSON API's registration endpoint. Like BlogLogin it
// returns the bearer token in the body and sets no cookie.
func (s *Server) BlogRegister(c *fiber.Ctx) error {
	user, err := s.registerUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	signed, err := s.tokens.Issue(user.Username)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"token":    signed,
	})
}

// BlogLogin returns the token in the body only; API clients manage their own
// credential storage.
func (s *Server) BlogLogin(c *fiber.Ctx) error {
	signed, err := s.loginUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"token": signed})
}
