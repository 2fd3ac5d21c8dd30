package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
)

func menuPaths(sections []Section) []string {
	var paths []string
	for _, section := range sections {
		for _, item := range section.Items {
			paths = append(paths, item.Path)
		}
	}

	return paths
}

func TestMenuPermissionsExistInCatalog(t *testing.T) {
	for _, section := range Menu() {
		for _, item := range section.Items {
			if item.Permission == "" {
				continue
			}

			assert.Truef(t, auth.IsKnownPermission(item.Permission),
				"menu item %q references unknown token %q", item.Title, item.Permission)
		}
	}
}

func TestFilterNoPermissions(t *testing.T) {
	sections := Filter(nil)

	// Only the ungated dashboard entry remains.
	require.Len(t, sections, 1)
	assert.Equal(t, "Overview", sections[0].Title)
	assert.Equal(t, []string{"/dashboard"}, menuPaths(sections))
}

func TestFilterFullCatalogShowsEverything(t *testing.T) {
	all := Filter(auth.AllPermissions())

	assert.Equal(t, menuPaths(Menu()), menuPaths(all))
}

func TestFilterDropsEmptySections(t *testing.T) {
	sections := Filter([]string{auth.PermSeoRedirects})

	require.Len(t, sections, 2)
	assert.Equal(t, "Overview", sections[0].Title)
	assert.Equal(t, "SEO", sections[1].Title)
	assert.Equal(t, []string{"/dashboard", "/redirects"}, menuPaths(sections))
}

func TestFilterItemRequiresExactToken(t *testing.T) {
	// posts.view shows the posts entry but none of the other content entries.
	sections := Filter([]string{auth.PermPostsView})

	assert.Equal(t, []string{"/dashboard", "/posts"}, menuPaths(sections))

	// A made-up token grants nothing.
	sections = Filter([]string{"posts.everything"})
	assert.Equal(t, []string{"/dashboard"}, menuPaths(sections))
}
