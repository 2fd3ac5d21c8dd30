// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gopress-admin",
	Short: "GoPress-Admin is a web-based administration backend for multi-tenant CMS deployments",
	Long: `GoPress-Admin is a web-based administration backend for multi-tenant CMS
deployments that provides a JSON API for managing users, roles, content,
email templates, subscription plans, media and backups.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
