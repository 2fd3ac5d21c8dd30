package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
	"github.com/GoPress-Admin/GoPress-Admin/internal/storage"
)

const documentContentType = "application/json"

// Manager runs exports and manages the stored backup documents.
type Manager struct {
	db    *gorm.DB
	store storage.Backend
}

// NewManager creates a backup manager writing documents through the given
// storage backend.
func NewManager(db *gorm.DB, store storage.Backend) *Manager {
	return &Manager{db: db, store: store}
}

// Export captures all reference tables into one document and stores it.
//
// The returned record is PENDING while the export runs and ends COMPLETED or
// FAILED. Failures during collection or upload are captured on the record
// rather than propagated; only the inability to create the record itself is
// returned as an error.
func (m *Manager) Export(ctx context.Context, name, createdBy string) (*models.Backup, error) {
	if m.db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		name = "Backup " + time.Now().Format("2006-01-02 15:04")
	}

	tables, err := json.Marshal(TableNames())
	if err != nil {
		return nil, fmt.Errorf("failed to encode table list: %w", err)
	}

	record := &models.Backup{
		Name:      name,
		Status:    models.BackupStatusPending,
		Tables:    tables,
		CreatedBy: createdBy,
	}

	if err := m.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create backup record: %w", err)
	}

	data, err := m.collect()
	if err != nil {
		return m.markFailed(record, err), nil
	}

	doc := Document{
		Version:   CurrentVersion,
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
		Data:      *data,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return m.markFailed(record, err), nil
	}

	fileName := fmt.Sprintf("backup-%s.json", record.ID)
	if err := m.store.Put(ctx, fileName, raw, documentContentType); err != nil {
		return m.markFailed(record, err), nil
	}

	updates := map[string]interface{}{
		"status":       models.BackupStatusCompleted,
		"file_name":    fileName,
		"file_size":    int64(len(raw)),
		"record_count": data.RecordCount(),
	}

	if err := m.db.Model(record).Updates(updates).Error; err != nil {
		return m.markFailed(record, err), nil
	}

	record.Status = models.BackupStatusCompleted
	record.FileName = fileName
	record.FileSize = int64(len(raw))
	record.RecordCount = data.RecordCount()

	log.Info().Str("backup_id", record.ID).Int("records", record.RecordCount).
		Int64("bytes", record.FileSize).Msg("Backup export completed")

	return record, nil
}

// collect reads every exportable table.
func (m *Manager) collect() (*Data, error) {
	var data Data

	steps := []struct {
		table string
		dest  interface{}
	}{
		{TableRoles, &data.Roles},
		{TableCategories, &data.Categories},
		{TableTags, &data.Tags},
		{TableSettings, &data.Settings},
		{TableRedirects, &data.Redirects},
		{TableEmailTemplates, &data.EmailTemplates},
		{TablePlans, &data.Plans},
	}

	for _, step := range steps {
		if err := m.db.Order("created_at ASC").Find(step.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to collect %s: %w", step.table, err)
		}
	}

	return &data, nil
}

// markFailed stamps the record FAILED with the error message. The failure is
// recorded, not propagated.
func (m *Manager) markFailed(record *models.Backup, cause error) *models.Backup {
	log.Error().Err(cause).Str("backup_id", record.ID).Msg("Backup export failed")

	record.Status = models.BackupStatusFailed
	record.Error = cause.Error()

	err := m.db.Model(record).Updates(map[string]interface{}{
		"status": models.BackupStatusFailed,
		"error":  cause.Error(),
	}).Error
	if err != nil {
		log.Error().Err(err).Str("backup_id", record.ID).Msg("Failed to persist backup failure")
	}

	return record
}

// List returns backup records newest first plus the total count.
func (m *Manager) List(limit, offset int) ([]models.Backup, int64, error) {
	if m.db == nil {
		return nil, 0, ErrDBNil
	}

	var total int64
	if err := m.db.Model(&models.Backup{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}

	var backups []models.Backup

	err := m.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&backups).Error
	if err != nil {
		return nil, 0, err
	}

	return backups, total, nil
}

// Get retrieves one backup record.
func (m *Manager) Get(id string) (*models.Backup, error) {
	if m.db == nil {
		return nil, ErrDBNil
	}

	var record models.Backup

	err := m.db.Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBackupNotFound
	}

	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Download returns the stored document of a completed backup.
func (m *Manager) Download(ctx context.Context, id string) ([]byte, *models.Backup, error) {
	record, err := m.Get(id)
	if err != nil {
		return nil, nil, err
	}

	if record.Status != models.BackupStatusCompleted || record.FileName == "" {
		return nil, nil, ErrBackupNotCompleted
	}

	raw, err := m.store.Get(ctx, record.FileName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read backup document: %w", err)
	}

	return raw, record, nil
}

// RestoreRecord replays a stored backup against the live database.
func (m *Manager) RestoreRecord(ctx context.Context, id string, opts Options) (*Result, *models.Backup, error) {
	raw, record, err := m.Download(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, nil, err
	}

	result, err := Restore(m.db, doc, opts)
	if err != nil {
		return nil, nil, err
	}

	return result, record, nil
}

// Delete removes a backup record and its stored document.
func (m *Manager) Delete(ctx context.Context, id string) error {
	record, err := m.Get(id)
	if err != nil {
		return err
	}

	if record.FileName != "" {
		if err := m.store.Delete(ctx, record.FileName); err != nil {
			return fmt.Errorf("failed to delete backup document: %w", err)
		}
	}

	return m.db.Delete(&models.Backup{}, "id = ?", id).Error
}
