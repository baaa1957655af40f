package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chronicle/internal/models"
	"chronicle/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBlogListPosts(t *testing.T) {
	t.Run("Flattens posts without comments by default", func(t *testing.T) {
		s, m := newTestServer(t)
		app := newTestApp(s)

		category := &models.Category{ID: 2, Name: "Tech", Slug: "tech"}
		m.posts.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostFilter) bool {
			return f.SearchSlug && f.Limit == 0 && !f.IncludeComments
		})).Return([]*models.Post{
			{
				ID:          1,
				Name:        "First",
				Description: "Body",
				Author:      "alice",
				Category:    category,
				Tags:        []models.Tag{{ID: 1, Name: "go"}},
				Comments:    []models.Comment{{ID: 9, Body: "hidden"}},
			},
		}, int64(1), nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/blog", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body []postResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "First", body[0].Name)
		assert.Equal(t, "tech", body[0].Category.Slug)
		require.Len(t, body[0].Tags, 1)
		assert.Nil(t, body[0].Comments)
	})

	t.Run("include=comments attaches comments", func(t *testing.T) {
		s, m := newTestServer(t)
		app := newTestApp(s)

		m.posts.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostFilter) bool {
			return f.IncludeComments
		})).Return([]*models.Post{
			{ID: 1, Name: "First", Comments: []models.Comment{{ID: 9, Body: "visible", Author: "bob"}}},
		}, int64(1), nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/blog?include=comments", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		var body []postResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		require.Len(t, body[0].Comments, 1)
		assert.Equal(t, "visible", body[0].Comments[0].Body)
	})

	t.Run("Category filter passes name or slug through", func(t *testing.T) {
		s, m := newTestServer(t)
		app := newTestApp(s)

		m.posts.On("List", mock.Anything, mock.MatchedBy(func(f repository.PostFilter) bool {
			return f.Category == "travel"
		})).Return([]*models.Post{}, int64(0), nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/blog?category=travel", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.posts.AssertExpectations(t)
	})
}

func TestBlogGetComments(t *testing.T) {
	s, m := newTestServer(t)
	app := newTestApp(s)

	m.posts.On("GetByID", mock.Anything, uint(1)).Return(&models.Post{ID: 1}, nil)
	m.comments.On("ListByPost", mock.Anything, uint(1)).
		Return([]*models.Comment{{ID: 1, Body: "first"}, {ID: 2, Body: "second"}}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/blog/1/comments", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body []commentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "first", body[0].Body)
}

func TestBlogCreatePost(t *testing.T) {
	t.Run("Requires authentication", func(t *testing.T) {
		s, _ := newTestServer(t)
		app := newTestApp(s)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/blog",
			map[string]any{"name": "X", "description": "Y"}))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Creates with default image", func(t *testing.T) {
		s, m := newTestServer(t)
		app := newTestApp(s)

		m.tags.On("GetByIDs", mock.Anything, []uint(nil)).Return([]models.Tag{}, nil)
		m.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.FeaturedImage == "default.jpg" && p.Author == "alice"
		})).Return(nil)
		m.posts.On("GetByID", mock.Anything, mock.Anything).
			Return(&models.Post{ID: 3, Name: "New", FeaturedImage: "default.jpg", Author: "alice"}, nil)

		payload, _ := json.Marshal(map[string]any{"name": "New", "description": "Body"})
		req := authedRequest(t, s, http.MethodPost, "/api/blog", "alice", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body postResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "default.jpg", body.FeaturedImage)
	})
}

func TestBlogUpdatePost(t *testing.T) {
	t.Run("Omitted category and tags keep stored values", func(t *testing.T) {
		s, m := newTestServer(t)
		app := newTestApp(s)

		storedCategory := uint(5)
		m.posts.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, Author: "alice", CategoryID: &storedCategory}, nil)
		m.posts.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.CategoryID != nil && *p.CategoryID == storedCategory
		})).Return(nil)

		payload, _ := json.Marshal(map[string]any{"name": "Renamed", "description": "Body"})
		req := authedRequest(t, s, http.MethodPut, "/api/blog/1", "alice", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.categories.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Non-author forbidden", func(t *testing.T) {
		s, m := newTestServer(t)
		app := newTestApp(s)

		m.posts.On("GetByID", mock.Anything, uint(1)).
			Return(&models.Post{ID: 1, Author: "alice"}, nil)

		payload, _ := json.Marshal(map[string]any{"name": "Hijacked", "description": "Body"})
		req := authedRequest(t, s, http.MethodPut, "/api/blog/1", "mallory", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		m.posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestBlogRegisterReturnsToken(t *testing.T) {
	s, m := newTestServer(t)
	app := newTestApp(s)

	m.users.On("GetByUsername", mock.Anything, "carol").Return(nil, nil)
	m.users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "carol"
	})).Return(nil)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/blog/register",
		map[string]string{"username": "carol", "password": "hunter22"}))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	tokenValue, _ := body["token"].(string)
	require.NotEmpty(t, tokenValue, "registration must hand the new account a bearer token")

	username, err := s.tokens.Verify(tokenValue)
	require.NoError(t, err)
	assert.Equal(t, "carol", username)

	// API flow: credential travels in the body only.
	assert.Empty(t, resp.Cookies())
}

func TestBlogDeletePost(t *testing.T) {
	s, m := newTestServer(t)
	app := newTestApp(s)

	m.posts.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Post{ID: 1, Author: "alice"}, nil)
	m.posts.On("Delete", mock.Anything, uint(1)).Return(nil)

	resp, err := app.Test(authedRequest(t, s, http.MethodDelete, "/api/blog/1", "alice", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
