// Package auth provides the permission catalog, role based permission
// evaluation and the fiber middleware gating API routes.
package auth
