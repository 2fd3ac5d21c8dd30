package models

// MediaFile represents the metadata of an uploaded media asset.
// The binary payload lives in the configured storage backend, never in the
// database, and is excluded from backups.
type MediaFile struct {
	Base
	// FileName is the original name of the uploaded file.
	FileName string `gorm:"size:255;not null" json:"fileName"`
	// Path is the storage key of the payload in the storage backend.
	Path string `gorm:"size:500;not null" json:"path"`
	// MimeType is the detected content type of the payload.
	MimeType string `gorm:"size:100" json:"mimeType"`
	// Size is the payload size in bytes.
	Size int64 `gorm:"not null" json:"size"`
	// UploadedBy references the uploading user.
	UploadedBy *string `gorm:"type:uuid" json:"uploadedBy,omitempty"`
}

// TableName specifies the database table name for the MediaFile model.
func (MediaFile) TableName() string {
	return "media_files"
}
