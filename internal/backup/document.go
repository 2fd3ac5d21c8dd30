package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// CurrentVersion is written into every exported document.
const CurrentVersion = "1.0"

// Table names as they appear in the document's data object and in restore
// option maps.
const (
	TableRoles          = "roles"
	TableCategories     = "categories"
	TableTags           = "tags"
	TableSettings       = "settings"
	TableRedirects      = "redirects"
	TableEmailTemplates = "emailTemplates"
	TablePlans          = "plans"
)

// TableNames lists every exportable table in restore order.
func TableNames() []string {
	return []string{
		TableRoles,
		TableCategories,
		TableTags,
		TableSettings,
		TableRedirects,
		TableEmailTemplates,
		TablePlans,
	}
}

var (
	// ErrInvalidFormat is returned when a document is not valid JSON or lacks
	// the version or data envelope fields. Nothing is written in that case.
	ErrInvalidFormat = errors.New("invalid backup document format")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrBackupNotFound is returned when a backup record is not found.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrBackupNotCompleted is returned when an operation needs an exported
	// document but the record never reached COMPLETED.
	ErrBackupNotCompleted = errors.New("backup is not completed")
)

// Document is the serialized form of one export.
type Document struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	Data      Data      `json:"data"`
}

// Data holds the exported rows per table. Absent tables are simply omitted.
type Data struct {
	Roles          []models.Role          `json:"roles,omitempty"`
	Categories     []models.Category      `json:"categories,omitempty"`
	Tags           []models.Tag           `json:"tags,omitempty"`
	Settings       []models.Setting       `json:"settings,omitempty"`
	Redirects      []models.Redirect      `json:"redirects,omitempty"`
	EmailTemplates []models.EmailTemplate `json:"emailTemplates,omitempty"`
	Plans          []models.Plan          `json:"plans,omitempty"`
}

// RecordCount returns the total number of rows across all tables.
func (d *Data) RecordCount() int {
	return len(d.Roles) + len(d.Categories) + len(d.Tags) + len(d.Settings) +
		len(d.Redirects) + len(d.EmailTemplates) + len(d.Plans)
}

// ParseDocument decodes and validates a backup document. The envelope must
// carry a version string and a data object; anything else is rejected before
// a single row is touched.
func ParseDocument(raw []byte) (*Document, error) {
	var probe struct {
		Version *string          `json:"version"`
		Data    *json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	if probe.Version == nil || *probe.Version == "" {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidFormat)
	}

	if probe.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidFormat)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	return &doc, nil
}
