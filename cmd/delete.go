package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vietdv277/hush/internal/hush"
	"github.com/vietdv277/hush/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a secret",
	Long: `Delete the secret <prefix>-<key> and drop it from .hushrc.json.

Without --force the secret is scheduled for deletion and can be restored
until the recovery window ends.

Examples:
  hush delete api
  hush delete api --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("force", "f", false, "delete immediately without a recovery window")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.Delete(cmd.Context(), hush.DeleteInput{Key: args[0], Force: force})
	if err != nil {
		return err
	}

	if result.Scheduled() {
		ui.Done(cmd.OutOrStdout(), "Your secret %s was successfully scheduled for deletion at %s.",
			ui.Bold(result.ID), ui.Bold(ui.FormatDate(result.DeletionDate)))
		return nil
	}

	ui.Done(cmd.OutOrStdout(), "Your secret %s was successfully deleted.", ui.Bold(result.ID))
	return nil
}
