package models

import "time"

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	// PostStatusDraft marks an unpublished post.
	PostStatusDraft PostStatus = "DRAFT"
	// PostStatusPublished marks a publicly visible post.
	PostStatusPublished PostStatus = "PUBLISHED"
	// PostStatusArchived marks a post removed from public listings.
	PostStatusArchived PostStatus = "ARCHIVED"
)

// Post represents a content entry.
// Posts are deliberately excluded from backups; only reference data is exported.
type Post struct {
	Base
	// Title is the display title of the post.
	Title string `gorm:"size:255;not null" json:"title"`
	// Slug is the unique URL fragment for the post.
	Slug string `gorm:"unique;size:255;not null" json:"slug"`
	// Content is the post body.
	Content string `gorm:"type:text" json:"content"`
	// Status is the publication state of the post.
	Status PostStatus `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	// AuthorID references the authoring user.
	AuthorID *string `gorm:"type:uuid" json:"authorId,omitempty"`
	// CategoryID references the category of the post.
	CategoryID *string `gorm:"type:uuid" json:"categoryId,omitempty"`
	// PublishedAt is when the post went public, nil for drafts.
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// TableName specifies the database table name for the Post model.
func (Post) TableName() string {
	return "posts"
}
