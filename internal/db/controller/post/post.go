// Package post manages content posts and their publication state.
package post

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrPostNotFound is returned when the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrPostTitleEmpty is returned when the post title is empty.
	ErrPostTitleEmpty = errors.New("post title is empty")

	// ErrPostSlugEmpty is returned when the post slug is empty.
	ErrPostSlugEmpty = errors.New("post slug is empty")

	// ErrPostAlreadyExists is returned when the slug is already taken.
	ErrPostAlreadyExists = errors.New("post already exists")

	// ErrPostCategoryNotFound is returned when the referenced category does not exist.
	ErrPostCategoryNotFound = errors.New("post category not found")

	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows List results.
type Filter struct {
	Status     models.PostStatus
	AuthorID   string
	CategoryID string
	Limit      int
	Offset     int
}

// Get returns one post by ID.
func Get(db *gorm.DB, id string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Post

	err := db.Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &stored, nil
}

// GetBySlug returns one post by slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Post

	err := db.Where("slug = ?", slug).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &stored, nil
}

// List returns a page of posts, newest first.
func List(db *gorm.DB, filter Filter) ([]models.Post, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.Model(&models.Post{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []models.Post

	err := query.Order("created_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}

func checkSlugFree(db *gorm.DB, slug string) error {
	if existing, err := GetBySlug(db, slug); err == nil && existing != nil {
		return ErrPostAlreadyExists
	} else if err != nil && !errors.Is(err, ErrPostNotFound) {
		return err
	}

	return nil
}

func checkCategory(db *gorm.DB, categoryID *string) error {
	if categoryID == nil {
		return nil
	}

	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", *categoryID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}

	if count == 0 {
		return ErrPostCategoryNotFound
	}

	return nil
}

// Create creates a post as a draft.
func Create(db *gorm.DB, title, slug, content string, authorID string, categoryID *string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if title == "" {
		return nil, ErrPostTitleEmpty
	}

	if slug == "" {
		return nil, ErrPostSlugEmpty
	}

	if err := checkSlugFree(db, slug); err != nil {
		return nil, err
	}

	if err := checkCategory(db, categoryID); err != nil {
		return nil, err
	}

	created := models.Post{
		Title:      title,
		Slug:       slug,
		Content:    content,
		Status:     models.PostStatusDraft,
		CategoryID: categoryID,
	}

	if authorID != "" {
		created.AuthorID = &authorID
	}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &created, nil
}

// Update updates a post's content fields. Status transitions go through
// Publish and Unpublish.
func Update(db *gorm.DB, id, title, slug, content string, categoryID *string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if title == "" {
		return nil, ErrPostTitleEmpty
	}

	if slug == "" {
		return nil, ErrPostSlugEmpty
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if slug != stored.Slug {
		if err := checkSlugFree(db, slug); err != nil {
			return nil, err
		}
	}

	if err := checkCategory(db, categoryID); err != nil {
		return nil, err
	}

	stored.Title = title
	stored.Slug = slug
	stored.Content = content
	stored.CategoryID = categoryID

	if err := db.Save(stored).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return stored, nil
}

// Publish makes a post public. Publishing an already published post only
// refreshes nothing; the original publication time is kept.
func Publish(db *gorm.DB, id string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if stored.Status == models.PostStatusPublished {
		return stored, nil
	}

	now := time.Now()
	stored.Status = models.PostStatusPublished

	if stored.PublishedAt == nil {
		stored.PublishedAt = &now
	}

	if err := db.Save(stored).Error; err != nil {
		return nil, fmt.Errorf("failed to publish post: %w", err)
	}

	return stored, nil
}

// Unpublish returns a post to draft state. The publication timestamp is
// cleared so a later publish restamps it.
func Unpublish(db *gorm.DB, id string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	stored.Status = models.PostStatusDraft
	stored.PublishedAt = nil

	err = db.Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.PostStatusDraft,
			"published_at": nil,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to unpublish post: %w", err)
	}

	return stored, nil
}

// Delete removes a post.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}
