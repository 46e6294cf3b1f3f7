// Package cmd implements the inboxzero command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inboxzero",
	Short: "AI triage for your Gmail inbox",
	Long: `inboxzero pulls unread messages from your Gmail inbox and hands each one to
a reasoning engine that classifies it (URGENT, FYI, FOLLOW_UP, JUNK) and takes
the matching action: draft a reply, archive, move to trash, or set a reminder.

It can run as:
  - An interactive CLI (run)
  - An MCP (Model Context Protocol) server for AI assistants (serve)`,
	SilenceUsage: true,
}

var version = "dev"

// SetVersion sets the version reported by the root command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the entry point for the CLI.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxzero version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
}
