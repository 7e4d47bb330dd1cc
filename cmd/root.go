package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gdrivetoken application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gdrivetoken [config-path]",
		Short: "Generates a Google Drive OAuth token for Switch homebrew",
		Long: `gdrivetoken runs the Google OAuth consent flow in your browser and writes
a long-lived Google Drive token file together with a copy of your OAuth client
secret. Copy both files to the '/switch/sx/' folder of your Switch SD card.

The optional argument is the path of the config file (default: config.json).
A config file with default values is created when it does not exist.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runGenerate,
	}
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gdrivetoken version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
