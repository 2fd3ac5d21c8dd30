// Package main provides the entry point for the GoPress-Admin application.
// It initializes and runs a web server using the Fiber framework that exposes
// a JSON API for managing a multi-tenant CMS: users, roles and permissions,
// content taxonomy, redirects, email templates, subscription plans, media,
// settings and backups. The application uses gorm for data persistence.
package main
