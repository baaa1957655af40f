package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1 ORDER BY "posts"."id" LIMIT $2`)).
		WithArgs(99, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	post, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, post)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_EmptyResult(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" ORDER BY id DESC LIMIT $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, total, err := repo.List(context.Background(), PostFilter{Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_SearchIsCaseInsensitive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE LOWER(name) LIKE $1 OR LOWER(description) LIKE $2`)).
		WithArgs("%golang%", "%golang%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE LOWER(name) LIKE $1 OR LOWER(description) LIKE $2 ORDER BY id DESC`)).
		WithArgs("%golang%", "%golang%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), PostFilter{Search: "GoLang"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_SlugParticipatesOnAPIPath(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE LOWER(name) LIKE $1 OR LOWER(description) LIKE $2 OR LOWER(slug) LIKE $3`)).
		WithArgs("%tips%", "%tips%", "%tips%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE LOWER(name) LIKE $1 OR LOWER(description) LIKE $2 OR LOWER(slug) LIKE $3 ORDER BY id DESC`)).
		WithArgs("%tips%", "%tips%", "%tips%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(context.Background(), PostFilter{Search: "tips", SearchSlug: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_CategoryFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	t.Run("By id", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE category_id = $1`)).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE category_id = $1 ORDER BY id DESC`)).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		categoryID := uint(7)
		_, _, err := repo.List(ctx, PostFilter{CategoryID: &categoryID})
		require.NoError(t, err)
	})

	t.Run("By name or slug", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE category_id IN (SELECT id FROM categories WHERE name = $1 OR slug = $2)`)).
			WithArgs("travel", "travel").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE category_id IN (SELECT id FROM categories WHERE name = $1 OR slug = $2) ORDER BY id DESC`)).
			WithArgs("travel", "travel").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := repo.List(ctx, PostFilter{Category: "travel"})
		require.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
