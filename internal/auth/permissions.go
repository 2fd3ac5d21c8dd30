package auth

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions. The set is closed: roles may only
// grant tokens listed here, and evaluation is flat set membership with no
// wildcard or hierarchy semantics.
const (
	// PermUsersView allows listing and viewing user accounts.
	PermUsersView = "users.view"
	// PermUsersCreate allows creating user accounts.
	PermUsersCreate = "users.create"
	// PermUsersEdit allows editing user accounts and assigning roles.
	PermUsersEdit = "users.edit"
	// PermUsersDelete allows deleting user accounts.
	PermUsersDelete = "users.delete"

	// PermPostsView allows viewing posts including drafts.
	PermPostsView = "posts.view"
	// PermPostsCreate allows creating new posts.
	PermPostsCreate = "posts.create"
	// PermPostsEditOwn allows editing posts authored by the acting user.
	PermPostsEditOwn = "posts.edit_own"
	// PermPostsEditAll allows editing any post.
	PermPostsEditAll = "posts.edit_all"
	// PermPostsDelete allows deleting posts.
	PermPostsDelete = "posts.delete"
	// PermPostsPublish allows publishing and unpublishing posts.
	PermPostsPublish = "posts.publish"

	// PermContentCategories allows managing categories.
	PermContentCategories = "content.categories"
	// PermContentTags allows managing tags.
	PermContentTags = "content.tags"

	// PermMediaView allows browsing the media library.
	PermMediaView = "media.view"
	// PermMediaUpload allows uploading media files.
	PermMediaUpload = "media.upload"
	// PermMediaDelete allows deleting media files.
	PermMediaDelete = "media.delete"

	// PermSeoRedirects allows managing SEO redirects.
	PermSeoRedirects = "seo.redirects"

	// PermSettingsView allows viewing application settings.
	PermSettingsView = "settings.view"
	// PermSettingsEdit allows changing application settings.
	PermSettingsEdit = "settings.edit"

	// PermSystemRoles allows managing roles and their permissions.
	PermSystemRoles = "system.roles"
	// PermSystemBackups allows creating, restoring and deleting backups.
	PermSystemBackups = "system.backups"
	// PermSystemActivity allows viewing the activity audit log.
	PermSystemActivity = "system.activity"

	// PermPlansView allows viewing subscription plans.
	PermPlansView = "plans.view"
	// PermPlansManage allows creating, editing and deleting plans.
	PermPlansManage = "plans.manage"

	// PermSubscriptionsView allows viewing subscriptions.
	PermSubscriptionsView = "subscriptions.view"
	// PermSubscriptionsManage allows changing subscription state.
	PermSubscriptionsManage = "subscriptions.manage"

	// PermEmailTemplates allows managing email templates.
	PermEmailTemplates = "email.templates"
	// PermEmailSend allows sending mail from templates.
	PermEmailSend = "email.send"
)

// CatalogGroup is one labeled section of the permission catalog.
// Grouping exists purely for presentation in the role editing UI and has no
// effect on permission evaluation.
type CatalogGroup struct {
	// Key is the machine name of the group (e.g., "posts").
	Key string `json:"key"`
	// Label is the display name of the group.
	Label string `json:"label"`
	// Permissions lists the tokens belonging to this group.
	Permissions []string `json:"permissions"`
}

// Catalog returns the full permission catalog grouped for presentation.
func Catalog() []CatalogGroup {
	return []CatalogGroup{
		{Key: "users", Label: "Users", Permissions: []string{
			PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete,
		}},
		{Key: "posts", Label: "Posts", Permissions: []string{
			PermPostsView, PermPostsCreate, PermPostsEditOwn, PermPostsEditAll,
			PermPostsDelete, PermPostsPublish,
		}},
		{Key: "content", Label: "Content", Permissions: []string{
			PermContentCategories, PermContentTags,
		}},
		{Key: "media", Label: "Media", Permissions: []string{
			PermMediaView, PermMediaUpload, PermMediaDelete,
		}},
		{Key: "seo", Label: "SEO", Permissions: []string{
			PermSeoRedirects,
		}},
		{Key: "settings", Label: "Settings", Permissions: []string{
			PermSettingsView, PermSettingsEdit,
		}},
		{Key: "system", Label: "System", Permissions: []string{
			PermSystemRoles, PermSystemBackups, PermSystemActivity,
		}},
		{Key: "plans", Label: "Plans", Permissions: []string{
			PermPlansView, PermPlansManage,
		}},
		{Key: "subscriptions", Label: "Subscriptions", Permissions: []string{
			PermSubscriptionsView, PermSubscriptionsManage,
		}},
		{Key: "email", Label: "Email", Permissions: []string{
			PermEmailTemplates, PermEmailSend,
		}},
	}
}

// AllPermissions returns every token of the catalog as a flat list.
func AllPermissions() []string {
	var all []string
	for _, group := range Catalog() {
		all = append(all, group.Permissions...)
	}

	return all
}

// IsKnownPermission reports whether the token exists in the catalog.
func IsKnownPermission(permission string) bool {
	for _, group := range Catalog() {
		for _, perm := range group.Permissions {
			if perm == permission {
				return true
			}
		}
	}

	return false
}

// Preset role template names. The presets seed the initial roles and are
// never re-applied or reconciled afterwards.
const (
	// PresetAdmin is the all-permissions system role.
	PresetAdmin = "Admin"
	// PresetEditor manages all content, media, redirects and templates.
	PresetEditor = "Editor"
	// PresetAuthor writes and edits own posts.
	PresetAuthor = "Author"
	// PresetUser is the default role for new accounts.
	PresetUser = "User"
)

// PresetTemplates maps each preset role name to its fixed permission subset.
func PresetTemplates() map[string][]string {
	return map[string][]string{
		PresetAdmin: AllPermissions(),
		PresetEditor: {
			PermPostsView, PermPostsCreate, PermPostsEditOwn, PermPostsEditAll,
			PermPostsDelete, PermPostsPublish,
			PermContentCategories, PermContentTags,
			PermMediaView, PermMediaUpload, PermMediaDelete,
			PermSeoRedirects,
			PermEmailTemplates,
		},
		PresetAuthor: {
			PermPostsView, PermPostsCreate, PermPostsEditOwn,
			PermMediaView, PermMediaUpload,
		},
		PresetUser: {
			PermPostsView,
		},
	}
}
