// Package backup implements point-in-time export and selective restore of
// the reference tables: roles, categories, tags, settings, redirects, email
// templates and plans. User accounts, posts and media binaries are deliberately
// excluded so exports stay small and credentials are never re-imported.
package backup
