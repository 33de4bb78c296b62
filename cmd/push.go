package cmd

import (
	"os/user"

	"github.com/spf13/cobra"

	"github.com/vietdv277/hush/internal/hush"
	"github.com/vietdv277/hush/internal/ui"
)

var pushCmd = &cobra.Command{
	Use:   "push <key> [file]",
	Short: "Upload an env file as a secret",
	Long: `Upload the entries of an env file to the secret <prefix>-<key>.

The push is refused when the remote secret has a newer version than the one
recorded in .hushrc.json. Pull first, or use --force to overwrite it.

Examples:
  hush push api .env
  hush push api --file .env.production -m "rotate db password"
  hush push api .env --ask-password       # encrypt before upload
  hush push api .env --force`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().BoolP("force", "f", false, "skip the version check")
	pushCmd.Flags().StringP("message", "m", "", "message stored with this version (default \"uploaded by <user>\")")
	pushCmd.Flags().String("file", "", "env file to upload (instead of the positional argument)")
	addPasswordFlags(pushCmd, "encrypt the secret with this password")

	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	message, _ := cmd.Flags().GetString("message")
	if message == "" {
		message = defaultMessage()
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	result, err := svc.Push(cmd.Context(), hush.PushInput{
		Key:      args[0],
		EnvFile:  envFileArg(cmd, args, 1),
		Force:    force,
		Message:  message,
		Password: password,
	})
	if err != nil {
		return err
	}

	if result.Blocked {
		return errExitFailure
	}

	action := "updated"
	if result.Created {
		action = "created"
	}
	ui.Done(cmd.OutOrStdout(), "Your secret %s was successfully %s (version %d).", ui.Bold(result.ID), action, result.Version)
	return nil
}

func defaultMessage() string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return "uploaded by " + name
}
