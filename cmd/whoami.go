package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/hush/internal/aws"
	"github.com/vietdv277/hush/internal/ui"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the AWS identity hush runs as",
	Long: `Display the current AWS caller identity and the resolved hush settings.

User names given to grant and revoke are resolved relative to this ARN.

Examples:
  hush whoami
  hush whoami --profile prod`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := aws.NewClient(cmd.Context(), aws.WithProfile(settings.Profile), aws.WithRegion(settings.Region))
	if err != nil {
		return err
	}

	identity, err := client.Identity().GetCallerIdentity(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.HeaderStyle.Render("AWS Identity"))
	fmt.Fprintln(out, ui.MutedStyle.Render("───────────────────────────────"))
	fmt.Fprintf(out, "  Profile: %s\n", client.Profile())
	fmt.Fprintf(out, "  Region:  %s\n", client.Region())
	fmt.Fprintf(out, "  Prefix:  %s\n", settings.Prefix)
	fmt.Fprintf(out, "  Ledger:  %s\n", settings.LedgerFile)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Account: %s\n", identity.Account)
	fmt.Fprintf(out, "  UserID:  %s\n", identity.UserID)
	fmt.Fprintf(out, "  ARN:     %s\n", ui.MutedStyle.Render(identity.Arn))

	return nil
}
