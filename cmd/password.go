package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func addPasswordFlags(cmd *cobra.Command, usage string) {
	cmd.Flags().String("password", "", usage)
	cmd.Flags().Bool("ask-password", false, "prompt for the password instead of passing it as a flag")
}

// readPassword returns --password, or prompts for one when --ask-password is set
func readPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	ask, _ := cmd.Flags().GetBool("ask-password")
	if password != "" || !ask {
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--ask-password requires an interactive terminal")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}

// envFileArg returns the env file given as args[i] or with --file
func envFileArg(cmd *cobra.Command, args []string, i int) string {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		return file
	}
	if len(args) > i {
		return args[i]
	}
	return ""
}
