package cmd

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vietdv277/hush/internal/hush"
	"github.com/vietdv277/hush/internal/ui"
)

var catCmd = &cobra.Command{
	Use:   "cat [key]",
	Short: "Show the entries of a secret",
	Long: `Print the last message and the entries of the secret <prefix>-<key>.

Without a key an interactive picker lists the available secrets.

Examples:
  hush cat api
  hush cat                    # pick a secret
  hush cat api --ask-password`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCat,
}

func init() {
	addPasswordFlags(catCmd, "decrypt the secret with this password")

	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no key given and no terminal to pick one from")
		}
		keys, err := svc.Keys(cmd.Context())
		if err != nil {
			return err
		}
		if key, err = ui.SelectSecret(keys); err != nil {
			return err
		}
	}

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	p, err := svc.Cat(cmd.Context(), hush.CatInput{Key: key, Password: password})
	if err != nil {
		return err
	}

	printf(cmd, "%s %s\n", ui.LabelStyle.Render("Last message:"), p.Message)
	printf(cmd, "%s %s\n", ui.LabelStyle.Render("Version:"), formatVersion(p.Version))
	printf(cmd, "%s %s\n\n", ui.LabelStyle.Render("Updated:"), ui.RelativeTime(p.UpdatedAt, time.Now()))

	ui.PrintEntryTable(cmd.OutOrStdout(), p.Secrets)
	return nil
}

func formatVersion(v int) string {
	if v == 0 {
		return "unversioned"
	}
	return ui.Bold(strconv.Itoa(v))
}
