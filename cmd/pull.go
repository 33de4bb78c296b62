package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vietdv277/hush/internal/envfile"
	"github.com/vietdv277/hush/internal/hush"
	"github.com/vietdv277/hush/internal/ui"
)

var pullCmd = &cobra.Command{
	Use:   "pull <key> [file]",
	Short: "Download a secret into an env file",
	Long: `Write the entries of the secret <prefix>-<key> to an env file.

When the file already has entries that differ from the secret, the differences
are printed and the file is left alone. Use --force to overwrite it.

Examples:
  hush pull api .env
  hush pull api --file .env.local --force
  hush pull api .env --ask-password`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPull,
}

func init() {
	pullCmd.Flags().BoolP("force", "f", false, "overwrite local changes")
	pullCmd.Flags().String("file", "", "env file to write (instead of the positional argument)")
	addPasswordFlags(pullCmd, "decrypt the secret with this password")

	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	file := envFileArg(cmd, args, 1)
	if file == "" {
		return envfile.ErrFileRead
	}
	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.Pull(cmd.Context(), hush.PullInput{
		Key:      args[0],
		EnvFile:  file,
		Force:    force,
		Password: password,
	})
	if err != nil {
		return err
	}

	if !result.Written() {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s differs from %s:\n\n", ui.Bold(filepath.Base(file)), ui.Bold(result.ID))
		ui.PrintDiff(out, *result.Diff)
		fmt.Fprintln(out, "\nUse --force to overwrite your local file.")
		return errExitFailure
	}

	ui.Done(cmd.OutOrStdout(), "Secrets successfully written to %s.", ui.Bold(filepath.Base(file)))
	return nil
}
