// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// FixturePath, when set, loads categories and tags from a YAML file
	// instead of the built-in lists.
	FixturePath string
}

var (
	categoryNames = []string{
		"Technology", "Travel", "Food", "Music", "Books",
		"Programming", "Science", "Art", "History", "Sports",
	}

	tagNames = []string{
		"go", "web", "tutorial", "opinion", "review", "howto",
		"news", "deep-dive", "beginner", "advanced",
	}
)

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	fixture, err := loadFixture(opts.FixturePath)
	if err != nil {
		return fmt.Errorf("failed to load fixture: %w", err)
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	categories, err := createCategories(db, fixture.Categories)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	tags, err := createTags(db, fixture.Tags)
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}
	log.Printf("%d categories, %d tags available", len(categories), len(tags))

	posts, err := createPosts(db, users, categories, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createComments(db, users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	log.Println("Database seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	for _, stmt := range []string{
		"DELETE FROM comments",
		"DELETE FROM post_tags",
		"DELETE FROM posts",
		"DELETE FROM tags",
		"DELETE FROM categories",
		"DELETE FROM users",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	if count <= 0 {
		count = 5
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Password: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(db *gorm.DB, names []string) ([]models.Category, error) {
	if len(names) == 0 {
		names = categoryNames
	}
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		category := models.Category{Name: name, Slug: slug.Generate(name)}
		if err := db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		names = tagNames
	}
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag := models.Tag{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func createPosts(db *gorm.DB, users []models.User, categories []models.Category, tags []models.Tag, count int) ([]models.Post, error) {
	if count <= 0 {
		count = 20
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		name := gofakeit.Sentence(4)

		post := models.Post{
			Name:          name,
			Description:   gofakeit.Paragraph(2, 4, 8, "\n"),
			FeaturedImage: "default.jpg",
			Slug:          slug.Generate(name),
			Author:        author.Username,
			Tags:          pickTags(r, tags),
		}
		if r.Intn(10) > 1 {
			category := categories[r.Intn(len(categories))]
			post.CategoryID = &category.ID
		}

		// realistic created_at spread over the last 90 days
		daysBack := r.Intn(90)
		post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(r.Intn(24))*time.Hour)

		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func pickTags(r *rand.Rand, tags []models.Tag) []models.Tag {
	n := r.Intn(4)
	// A small fixture may supply fewer tags than the draw; never ask for
	// more distinct tags than exist.
	if n > len(tags) {
		n = len(tags)
	}
	if n == 0 {
		return nil
	}
	picked := make([]models.Tag, 0, n)
	seen := make(map[uint]bool, n)
	for len(picked) < n {
		t := tags[r.Intn(len(tags))]
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		picked = append(picked, t)
	}
	return picked
}

func createComments(db *gorm.DB, users []models.User, posts []models.Post) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, post := range posts {
		for i := 0; i < r.Intn(5); i++ {
			comment := models.Comment{
				PostID: post.ID,
				Body:   gofakeit.Sentence(10),
				Author: users[r.Intn(len(users))].Username,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
