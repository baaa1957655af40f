package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chronicle/internal/config"
	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/service"
	"chronicle/internal/storage"
	"chronicle/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Category), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Tag), args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context) ([]*models.Article, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type testMocks struct {
	users      *MockUserRepository
	posts      *MockPostRepository
	categories *MockCategoryRepository
	tags       *MockTagRepository
	comments   *MockCommentRepository
	articles   *MockArticleRepository
}

// newTestServer wires a Server onto mock repositories with a real token
// manager and a throwaway upload directory.
func newTestServer(t *testing.T) (*Server, *testMocks) {
	m := &testMocks{
		users:      new(MockUserRepository),
		posts:      new(MockPostRepository),
		categories: new(MockCategoryRepository),
		tags:       new(MockTagRepository),
		comments:   new(MockCommentRepository),
		articles:   new(MockArticleRepository),
	}

	uploads := storage.NewUploads(t.TempDir())
	s := &Server{
		config:       &config.Config{Port: "0", Env: "test", JWTSecret: "test-secret", JWTExpireDays: 7},
		tokens:       token.NewManager("test-secret", 7),
		uploads:      uploads,
		userRepo:     m.users,
		postRepo:     m.posts,
		categoryRepo: m.categories,
		tagRepo:      m.tags,
		commentRepo:  m.comments,
		articleRepo:  m.articles,
	}
	s.postService = service.NewPostService(m.posts, m.categories, m.tags, m.comments, uploads)
	return s, m
}

// newTestApp registers the full route table behind the token verifier.
func newTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Use(s.TokenVerifier())
	s.SetupRoutes(app)
	return app
}

// authedRequest builds a request carrying a valid bearer token for username.
func authedRequest(t *testing.T, s *Server, method, target, username string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	signed, err := s.tokens.Issue(username)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+signed)
	return req
}
