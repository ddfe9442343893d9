// Package cmd holds the cmv-site command line: the web server plus a few
// admin chores that are handy outside the browser.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state out of package globals.
func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "cmv-site",
		Short: "Chinmaya Mission Vasai website server",
		Long: `cmv-site serves the Chinmaya Mission Vasai public website and admin
console. Content lives in the Remote Content API; this binary renders pages,
relays form submissions and drives the live carousel feed.`,
		SilenceUsage: true,
		Version:      Version,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		newServeCmd(&envFile),
		newExportCmd(&envFile),
		newHashPasswordCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return newRootCmd().Execute()
}
