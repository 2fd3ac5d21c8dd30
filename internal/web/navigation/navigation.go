// Package navigation builds the permission-gated admin menu. The menu is a
// pure function of the user's permission set: an item is visible exactly when
// its permission token is granted, and a section disappears when none of its
// items survive.
package navigation

import "github.com/GoPress-Admin/GoPress-Admin/internal/auth"

// Item is one menu entry.
type Item struct {
	// Title is the display name of the entry.
	Title string `json:"title"`
	// Path is the frontend route the entry links to.
	Path string `json:"path"`
	// Icon is the icon name the frontend renders next to the title.
	Icon string `json:"icon,omitempty"`
	// Permission is the token required to see this entry, empty for always
	// visible entries.
	Permission string `json:"-"`
}

// Section is one labeled group of menu entries.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Menu returns the full admin menu before permission filtering.
func Menu() []Section {
	return []Section{
		{Title: "Overview", Items: []Item{
			{Title: "Dashboard", Path: "/dashboard", Icon: "home"},
		}},
		{Title: "Content", Items: []Item{
			{Title: "Posts", Path: "/posts", Icon: "file-text", Permission: auth.PermPostsView},
			{Title: "Categories", Path: "/categories", Icon: "folder", Permission: auth.PermContentCategories},
			{Title: "Tags", Path: "/tags", Icon: "tag", Permission: auth.PermContentTags},
			{Title: "Media", Path: "/media", Icon: "image", Permission: auth.PermMediaView},
		}},
		{Title: "SEO", Items: []Item{
			{Title: "Redirects", Path: "/redirects", Icon: "corner-up-right", Permission: auth.PermSeoRedirects},
		}},
		{Title: "Email", Items: []Item{
			{Title: "Templates", Path: "/email-templates", Icon: "mail", Permission: auth.PermEmailTemplates},
		}},
		{Title: "Billing", Items: []Item{
			{Title: "Plans", Path: "/plans", Icon: "layers", Permission: auth.PermPlansView},
			{Title: "Subscriptions", Path: "/subscriptions", Icon: "repeat", Permission: auth.PermSubscriptionsView},
		}},
		{Title: "Administration", Items: []Item{
			{Title: "Users", Path: "/users", Icon: "users", Permission: auth.PermUsersView},
			{Title: "Roles", Path: "/roles", Icon: "shield", Permission: auth.PermSystemRoles},
			{Title: "Backups", Path: "/backups", Icon: "archive", Permission: auth.PermSystemBackups},
			{Title: "Activity Log", Path: "/activity", Icon: "list", Permission: auth.PermSystemActivity},
			{Title: "Settings", Path: "/settings", Icon: "settings", Permission: auth.PermSettingsView},
		}},
	}
}

// Filter reduces the menu to what the given permission set may see.
func Filter(permissions []string) []Section {
	granted := make(map[string]bool, len(permissions))
	for _, perm := range permissions {
		granted[perm] = true
	}

	var visible []Section

	for _, section := range Menu() {
		var items []Item

		for _, item := range section.Items {
			if item.Permission == "" || granted[item.Permission] {
				items = append(items, item)
			}
		}

		if len(items) > 0 {
			visible = append(visible, Section{Title: section.Title, Items: items})
		}
	}

	return visible
}
