package cmd

import (
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = offline(&cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printf(cmd, "Hush CLI\n")
		printf(cmd, "  Version:    %s\n", Version)
		printf(cmd, "  Commit:     %s\n", Commit)
		printf(cmd, "  Build Date: %s\n", BuildDate)
	},
})

func init() {
	rootCmd.AddCommand(versionCmd)
}
