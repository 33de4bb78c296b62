package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vietdv277/hush/internal/config"
)

var configCmd = offline(&cobra.Command{
	Use:   "config",
	Short: "Show or change the hush config file",
	Long: `Show or change ~/.config/hush/config.yaml.

Keys: ` + strings.Join(config.Keys(), ", ") + `

Flags and HUSH_* environment variables take precedence over the file.

Examples:
  hush config show
  hush config set prefix team
  hush config set region eu-west-1
  hush config set region ""          # clear a key`,
})

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config file and the resolved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GetConfigPath()
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return err
		}

		printf(cmd, "Config file: %s\n\n", path)
		for _, key := range config.Keys() {
			value, _ := cfg.Get(key)
			printf(cmd, "  %-12s %s\n", key+":", value)
		}

		printf(cmd, "\nResolved:\n\n")
		printf(cmd, "  %-12s %s\n", "profile:", settings.Profile)
		printf(cmd, "  %-12s %s\n", "region:", settings.Region)
		printf(cmd, "  %-12s %s\n", "prefix:", settings.Prefix)
		printf(cmd, "  %-12s %s\n", "ledger_file:", settings.LedgerFile)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GetConfigPath()
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return err
		}

		if err := cfg.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.Keys(), ", "))
		}

		if err := config.SaveConfig(path, cfg); err != nil {
			return err
		}

		printf(cmd, "Set %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	rootCmd.AddCommand(configCmd)
}
