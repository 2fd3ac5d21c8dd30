package backup

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// Options selects which tables of a document get restored. Omitted or false
// keys skip the table entirely.
type Options struct {
	Roles          bool `json:"roles"`
	Categories     bool `json:"categories"`
	Tags           bool `json:"tags"`
	Settings       bool `json:"settings"`
	Redirects      bool `json:"redirects"`
	EmailTemplates bool `json:"emailTemplates"`
	Plans          bool `json:"plans"`
}

// Any reports whether at least one table is selected.
func (o Options) Any() bool {
	return o.Roles || o.Categories || o.Tags || o.Settings ||
		o.Redirects || o.EmailTemplates || o.Plans
}

// SelectedTables lists the selected table names in restore order.
func (o Options) SelectedTables() []string {
	var tables []string

	selected := map[string]bool{
		TableRoles:          o.Roles,
		TableCategories:     o.Categories,
		TableTags:           o.Tags,
		TableSettings:       o.Settings,
		TableRedirects:      o.Redirects,
		TableEmailTemplates: o.EmailTemplates,
		TablePlans:          o.Plans,
	}

	for _, name := range TableNames() {
		if selected[name] {
			tables = append(tables, name)
		}
	}

	return tables
}

// Result reports what a restore run did. Counts holds per-table successful
// upserts, serialized as the results object; rows that failed are listed in
// Warnings instead of being silently dropped.
type Result struct {
	Counts   map[string]int `json:"results"`
	Total    int            `json:"total"`
	Warnings []string       `json:"warnings"`
}

// Restore replays the selected tables of a document against the live
// database. Every row is upserted by its primary key: an existing row with
// the same id is overwritten, a missing one is created with that id, so
// replaying the same document is idempotent.
//
// Rows are committed one by one rather than inside a single transaction. A
// failed row (for example a unique slug collision against a row with a
// different id) produces a warning and is skipped; the restore itself never
// aborts on individual rows.
func Restore(db *gorm.DB, doc *Document, opts Options) (*Result, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrInvalidFormat)
	}

	result := &Result{
		Counts:   make(map[string]int),
		Warnings: []string{},
	}

	if opts.Roles {
		result.Counts[TableRoles] = upsertRows(db, TableRoles, doc.Data.Roles,
			func(r *models.Role) string { return r.ID }, &result.Warnings)
	}

	if opts.Categories {
		result.Counts[TableCategories] = restoreCategories(db, doc.Data.Categories, &result.Warnings)
	}

	if opts.Tags {
		result.Counts[TableTags] = upsertRows(db, TableTags, doc.Data.Tags,
			func(t *models.Tag) string { return t.ID }, &result.Warnings)
	}

	if opts.Settings {
		result.Counts[TableSettings] = upsertRows(db, TableSettings, doc.Data.Settings,
			func(s *models.Setting) string { return s.ID }, &result.Warnings)
	}

	if opts.Redirects {
		result.Counts[TableRedirects] = upsertRows(db, TableRedirects, doc.Data.Redirects,
			func(r *models.Redirect) string { return r.ID }, &result.Warnings)
	}

	if opts.EmailTemplates {
		result.Counts[TableEmailTemplates] = upsertRows(db, TableEmailTemplates, doc.Data.EmailTemplates,
			func(e *models.EmailTemplate) string { return e.ID }, &result.Warnings)
	}

	if opts.Plans {
		result.Counts[TablePlans] = upsertRows(db, TablePlans, doc.Data.Plans,
			func(p *models.Plan) string { return p.ID }, &result.Warnings)
	}

	for _, count := range result.Counts {
		result.Total += count
	}

	return result, nil
}

// upsertByID is the conflict clause shared by every restored table. The
// conflict target is pinned to the primary key so collisions on other unique
// indexes (name, slug, source) fail the row instead of hijacking the upsert.
var upsertByID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	UpdateAll: true,
}

// upsertRows writes one table's rows and returns the number of successful
// upserts. Failed rows append a warning and are skipped.
func upsertRows[T any](db *gorm.DB, table string, rows []T, rowID func(*T) string, warnings *[]string) int {
	count := 0

	for i := range rows {
		id := rowID(&rows[i])
		if id == "" {
			*warnings = append(*warnings, fmt.Sprintf("%s: row %d has no id, skipped", table, i))
			continue
		}

		if err := db.Clauses(upsertByID).Create(&rows[i]).Error; err != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s: row %s skipped: %v", table, id, err))
			continue
		}

		count++
	}

	return count
}

// restoreCategories restores the category tree in two passes. Pass one
// upserts every node with its parent link stripped so the array order never
// matters; pass two wires the links once all nodes exist. The returned count
// covers pass-one upserts only, matching the counting policy of every other
// table; broken parent links surface as warnings.
func restoreCategories(db *gorm.DB, rows []models.Category, warnings *[]string) int {
	count := 0
	restored := make(map[string]bool, len(rows))

	for i := range rows {
		id := rows[i].ID
		if id == "" {
			*warnings = append(*warnings, fmt.Sprintf("%s: row %d has no id, skipped", TableCategories, i))
			continue
		}

		node := rows[i]
		node.ParentID = nil

		if err := db.Clauses(upsertByID).Create(&node).Error; err != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s: row %s skipped: %v", TableCategories, id, err))
			continue
		}

		restored[id] = true
		count++
	}

	for i := range rows {
		id := rows[i].ID
		parentID := rows[i].ParentID

		if parentID == nil || !restored[id] {
			continue
		}

		var parentCount int64
		if err := db.Model(&models.Category{}).Where("id = ?", *parentID).Count(&parentCount).Error; err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("%s: failed to look up parent %s of %s: %v", TableCategories, *parentID, id, err))
			continue
		}

		if parentCount == 0 {
			*warnings = append(*warnings,
				fmt.Sprintf("%s: parent %s of %s not found, link dropped", TableCategories, *parentID, id))
			continue
		}

		if err := db.Model(&models.Category{}).Where("id = ?", id).
			Update("parent_id", *parentID).Error; err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("%s: failed to link %s to parent %s: %v", TableCategories, id, *parentID, err))
		}
	}

	return count
}
