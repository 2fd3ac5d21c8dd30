package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogTokensAreUnique(t *testing.T) {
	seen := make(map[string]string)

	for _, group := range Catalog() {
		for _, perm := range group.Permissions {
			previous, duplicate := seen[perm]
			assert.Falsef(t, duplicate,
				"token %q appears in groups %q and %q", perm, previous, group.Key)
			seen[perm] = group.Key
		}
	}

	assert.Len(t, AllPermissions(), len(seen))
}

func TestCatalogGroupKeysAreUnique(t *testing.T) {
	seen := make(map[string]bool)

	for _, group := range Catalog() {
		assert.Falsef(t, seen[group.Key], "duplicate group key %q", group.Key)
		assert.NotEmpty(t, group.Label)
		assert.NotEmpty(t, group.Permissions)
		seen[group.Key] = true
	}
}

func TestIsKnownPermission(t *testing.T) {
	assert.True(t, IsKnownPermission(PermUsersView))
	assert.True(t, IsKnownPermission(PermSystemBackups))
	assert.False(t, IsKnownPermission("users.superpower"))
	assert.False(t, IsKnownPermission(""))
	assert.False(t, IsKnownPermission("users"))
}

func TestPresetTemplatesStayInsideCatalog(t *testing.T) {
	for name, perms := range PresetTemplates() {
		require.NotEmptyf(t, perms, "preset %q grants no permissions", name)

		for _, perm := range perms {
			assert.Truef(t, IsKnownPermission(perm),
				"preset %q grants unknown token %q", name, perm)
		}
	}
}

func TestPresetAdminGrantsEverything(t *testing.T) {
	templates := PresetTemplates()
	require.Contains(t, templates, PresetAdmin)

	assert.ElementsMatch(t, AllPermissions(), templates[PresetAdmin])
}

func TestPresetTemplatesCoverAllPresets(t *testing.T) {
	templates := PresetTemplates()

	for _, name := range []string{PresetAdmin, PresetEditor, PresetAuthor, PresetUser} {
		assert.Contains(t, templates, name)
	}

	assert.Len(t, templates, 4)
}
