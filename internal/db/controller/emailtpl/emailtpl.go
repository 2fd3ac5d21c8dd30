// Package emailtpl manages reusable email templates.
package emailtpl

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrTemplateNotFound is returned when the requested template does not exist.
	ErrTemplateNotFound = errors.New("email template not found")

	// ErrTemplateNameEmpty is returned when the template name is empty.
	ErrTemplateNameEmpty = errors.New("email template name is empty")

	// ErrTemplateSlugEmpty is returned when the template slug is empty.
	ErrTemplateSlugEmpty = errors.New("email template slug is empty")

	// ErrTemplateSubjectEmpty is returned when the subject line is empty.
	ErrTemplateSubjectEmpty = errors.New("email template subject is empty")

	// ErrTemplateAlreadyExists is returned when the slug is already taken.
	ErrTemplateAlreadyExists = errors.New("email template already exists")

	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Fields carries the mutable fields of an email template.
type Fields struct {
	Name        string
	Slug        string
	Subject     string
	HTMLContent string
	TextContent string
	Variables   []string
	Description string
	IsActive    bool
}

func (f *Fields) validate() error {
	if f.Name == "" {
		return ErrTemplateNameEmpty
	}

	if f.Slug == "" {
		return ErrTemplateSlugEmpty
	}

	if f.Subject == "" {
		return ErrTemplateSubjectEmpty
	}

	return nil
}

func (f *Fields) variablesJSON() (datatypes.JSON, error) {
	if f.Variables == nil {
		return nil, nil
	}

	raw, err := json.Marshal(f.Variables)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template variables: %w", err)
	}

	return datatypes.JSON(raw), nil
}

// Get returns one template by ID.
func Get(db *gorm.DB, id string) (*models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.EmailTemplate

	err := db.Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}

	return &stored, nil
}

// GetBySlug returns one template by slug.
func GetBySlug(db *gorm.DB, slug string) (*models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.EmailTemplate

	err := db.Where("slug = ?", slug).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}

	return &stored, nil
}

// GetAll returns all templates ordered by name.
func GetAll(db *gorm.DB) ([]models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var templates []models.EmailTemplate

	if err := db.Order("name").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to get email templates: %w", err)
	}

	return templates, nil
}

// Create creates a template.
func Create(db *gorm.DB, fields Fields) (*models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := fields.validate(); err != nil {
		return nil, err
	}

	if existing, err := GetBySlug(db, fields.Slug); err == nil && existing != nil {
		return nil, ErrTemplateAlreadyExists
	} else if err != nil && !errors.Is(err, ErrTemplateNotFound) {
		return nil, err
	}

	variables, err := fields.variablesJSON()
	if err != nil {
		return nil, err
	}

	created := models.EmailTemplate{
		Name:        fields.Name,
		Slug:        fields.Slug,
		Subject:     fields.Subject,
		HTMLContent: fields.HTMLContent,
		TextContent: fields.TextContent,
		Variables:   variables,
		Description: fields.Description,
		IsActive:    fields.IsActive,
	}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create email template: %w", err)
	}

	return &created, nil
}

// Update updates a template.
func Update(db *gorm.DB, id string, fields Fields) (*models.EmailTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := fields.validate(); err != nil {
		return nil, err
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if fields.Slug != stored.Slug {
		if existing, err := GetBySlug(db, fields.Slug); err == nil && existing != nil {
			return nil, ErrTemplateAlreadyExists
		} else if err != nil && !errors.Is(err, ErrTemplateNotFound) {
			return nil, err
		}
	}

	variables, err := fields.variablesJSON()
	if err != nil {
		return nil, err
	}

	stored.Name = fields.Name
	stored.Slug = fields.Slug
	stored.Subject = fields.Subject
	stored.HTMLContent = fields.HTMLContent
	stored.TextContent = fields.TextContent
	stored.Variables = variables
	stored.Description = fields.Description
	stored.IsActive = fields.IsActive

	if err := db.Save(stored).Error; err != nil {
		return nil, fmt.Errorf("failed to update email template: %w", err)
	}

	return stored, nil
}

// Delete removes a template.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.EmailTemplate{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete email template: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
