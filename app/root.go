// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scholarden-admin",
	Short: "scholarden-admin is the onboarding and review backend for Scholarden",
	Long: `scholarden-admin provisions member accounts from external sign-in,
keeps session tokens in sync with account roles and runs the
credential-review queue for administrators.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
