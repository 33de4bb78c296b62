package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vietdv277/hush/internal/hush"
	"github.com/vietdv277/hush/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List hush secrets",
	Long: `List every secret whose name starts with <prefix>-.

Encrypted secrets show an unknown entry count unless a password is given.

Examples:
  hush list
  hush list --prefix team
  hush list --ask-password`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	addPasswordFlags(listCmd, "decrypt encrypted secrets with this password")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	secrets, err := svc.List(cmd.Context(), hush.ListInput{Password: password})
	if err != nil {
		return err
	}

	if len(secrets) == 0 {
		printf(cmd, "No secrets found with prefix %s.\n", ui.Bold(hush.SecretID(settings.Prefix, "")))
		return nil
	}

	ui.PrintSecretTable(cmd.OutOrStdout(), secrets, time.Now())
	return nil
}
