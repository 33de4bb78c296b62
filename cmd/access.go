package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vietdv277/hush/internal/hush"
	"github.com/vietdv277/hush/internal/ui"
)

var grantCmd = &cobra.Command{
	Use:   "grant <key> <identity>",
	Short: "Give an IAM principal access to a secret",
	Long: `Add a statement to the resource policy of <prefix>-<key> that allows
<identity> full access to the secret.

<identity> is an IAM user name in your account, a 12-digit account ID or an ARN.

Examples:
  hush grant api bob
  hush grant api arn:aws:iam::123456789012:user/bob
  hush grant api 123456789012`,
	Args: cobra.ExactArgs(2),
	RunE: runGrant,
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <key> <identity>",
	Short: "Remove an IAM principal's access to a secret",
	Long: `Remove every statement naming <identity> from the resource policy of
<prefix>-<key>.

Examples:
  hush revoke api bob
  hush revoke api arn:aws:iam::123456789012:user/bob`,
	Args: cobra.ExactArgs(2),
	RunE: runRevoke,
}

func init() {
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(revokeCmd)
}

func runGrant(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.Grant(cmd.Context(), hush.AccessInput{Key: args[0], Identity: args[1]})
	if err != nil {
		return err
	}

	if result.AlreadyGranted {
		printf(cmd, "User %s already has access to secret %s.\n", ui.Bold(result.Principal), ui.Bold(result.ID))
		return nil
	}

	ui.Done(cmd.OutOrStdout(), "Access to secret %s successfully granted to user %s.", ui.Bold(result.ID), ui.Bold(result.Principal))
	return nil
}

func runRevoke(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.Revoke(cmd.Context(), hush.AccessInput{Key: args[0], Identity: args[1]})
	if err != nil {
		return err
	}

	ui.Done(cmd.OutOrStdout(), "Access to secret %s successfully revoked for user %s.", ui.Bold(result.ID), ui.Bold(result.Principal))
	return nil
}
