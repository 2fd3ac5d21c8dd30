package models

import "gorm.io/datatypes"

// BackupStatus represents the lifecycle state of a backup record.
// COMPLETED and FAILED are terminal; a record never leaves them except by
// deletion.
type BackupStatus string

const (
	// BackupStatusPending marks a backup whose export is still running.
	BackupStatusPending BackupStatus = "PENDING"
	// BackupStatusCompleted marks a successfully exported backup.
	BackupStatusCompleted BackupStatus = "COMPLETED"
	// BackupStatusFailed marks a backup whose export failed.
	BackupStatusFailed BackupStatus = "FAILED"
)

// Backup represents the metadata and audit record of one point-in-time export.
// The exported JSON document itself is stored out-of-band through the storage
// backend; this record only describes it.
type Backup struct {
	Base
	// Name is the display name of the backup.
	Name string `gorm:"size:255;not null" json:"name"`
	// FileName is the storage key of the exported document.
	FileName string `gorm:"size:255" json:"fileName"`
	// FileSize is the byte length of the serialized document.
	FileSize int64 `gorm:"default:0" json:"fileSize"`
	// Status is the lifecycle state of the export.
	Status BackupStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	// Tables is the JSON encoded list of exported table names.
	Tables datatypes.JSON `json:"tables"`
	// RecordCount is the total number of rows across all exported tables.
	RecordCount int `gorm:"default:0" json:"recordCount"`
	// Error holds the failure message when Status is FAILED.
	Error string `gorm:"size:1000" json:"error,omitempty"`
	// CreatedBy is the ID of the user who triggered the export.
	CreatedBy string `gorm:"type:uuid" json:"createdBy"`
}

// TableName specifies the database table name for the Backup model.
func (Backup) TableName() string {
	return "backups"
}
