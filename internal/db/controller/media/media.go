// Package media manages the metadata of uploaded media files.
// Binary payloads live in the storage backend; only their keys are kept here.
package media

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrMediaNotFound is returned when the requested media file does not exist.
	ErrMediaNotFound = errors.New("media file not found")

	// ErrMediaFileNameEmpty is returned when the file name is empty.
	ErrMediaFileNameEmpty = errors.New("media file name is empty")

	// ErrMediaPathEmpty is returned when the storage key is empty.
	ErrMediaPathEmpty = errors.New("media storage path is empty")

	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get returns one media file by ID.
func Get(db *gorm.DB, id string) (*models.MediaFile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.MediaFile

	err := db.Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get media file: %w", err)
	}

	return &stored, nil
}

// List returns a page of media files, newest first.
func List(db *gorm.DB, limit, offset int) ([]models.MediaFile, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	var total int64
	if err := db.Model(&models.MediaFile{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count media files: %w", err)
	}

	var files []models.MediaFile

	err := db.Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&files).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list media files: %w", err)
	}

	return files, total, nil
}

// Create records an uploaded file.
func Create(db *gorm.DB, fileName, path, mimeType string, size int64, uploadedBy string) (*models.MediaFile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if fileName == "" {
		return nil, ErrMediaFileNameEmpty
	}

	if path == "" {
		return nil, ErrMediaPathEmpty
	}

	created := models.MediaFile{
		FileName: fileName,
		Path:     path,
		MimeType: mimeType,
		Size:     size,
	}

	if uploadedBy != "" {
		created.UploadedBy = &uploadedBy
	}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	return &created, nil
}

// Delete removes a media record. The caller removes the payload from storage.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.MediaFile{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete media file: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrMediaNotFound
	}

	return nil
}
