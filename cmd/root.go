package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/hush/internal/aws"
	"github.com/vietdv277/hush/internal/config"
	"github.com/vietdv277/hush/internal/encryption"
	"github.com/vietdv277/hush/internal/hush"
	"github.com/vietdv277/hush/internal/ledger"
	"github.com/vietdv277/hush/internal/logging"
	"github.com/vietdv277/hush/internal/ui"
)

// errExitFailure ends a command with exit code 1 after it already printed
// everything the user needs to see
var errExitFailure = errors.New("command failed")

var (
	// Global flags
	profile string
	region  string
	prefix  string
	verbose bool
	debug   bool

	settings  config.Settings
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "hush",
	Short: "Hush - share .env files through AWS Secrets Manager",
	Long: `Hush pushes local .env files to AWS Secrets Manager and pulls them back,
keeping a version ledger (.hushrc.json) so nobody overwrites a newer secret by accident.

Secrets are stored as <prefix>-<key> (the prefix defaults to "hush").

Examples:
  hush push api .env              # Upload .env as secret hush-api
  hush pull api .env              # Download hush-api into .env
  hush list                       # List all hush secrets
  hush cat api                    # Show the entries of hush-api
  hush grant api bob              # Give IAM user bob access to hush-api
  hush revoke api bob             # Take it away again
  hush delete api                 # Schedule hush-api for deletion

An AWS profile must be selected with AWS_PROFILE or --profile.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: requireProfile,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if !errors.Is(err, errExitFailure) {
			ui.Error(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile to use (default $AWS_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region to use (default eu-central-1)")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "secret name prefix (default \"hush\")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print informational messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug messages")

	// Bind flags to viper
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	_ = viper.BindPFlag("prefix", rootCmd.PersistentFlags().Lookup("prefix"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	config.BindEnv(viper.GetViper())

	cfg, err := config.LoadConfig(config.GetConfigPath())
	if err != nil {
		configErr = err
		cfg = &config.Config{}
	}

	settings = config.Resolve(viper.GetViper(), cfg, func(name string) string {
		if p, ok := aws.FindProfile(aws.DefaultAWSDir(), name); ok {
			return p.Region
		}
		return ""
	})
}

// requireProfile refuses to run AWS commands without a selected profile
func requireProfile(cmd *cobra.Command, args []string) error {
	if isOffline(cmd) {
		return nil
	}

	if configErr != nil {
		return configErr
	}

	if settings.Profile == "" {
		return errors.New("no AWS profile selected. Set AWS_PROFILE or pass --profile")
	}

	if !aws.ProfileExists(aws.DefaultAWSDir(), settings.Profile) {
		newLogger().Warnf("Profile %q was not found in %s", settings.Profile, aws.DefaultAWSDir())
	}

	return nil
}

func newLogger() *logging.Logger {
	return logging.New(settings.Verbose, settings.Debug)
}

// newService wires a hush.Service for the resolved settings
func newService(ctx context.Context) (*hush.Service, error) {
	log := newLogger()

	client, err := aws.NewClient(ctx, aws.WithProfile(settings.Profile), aws.WithRegion(settings.Region))
	if err != nil {
		return nil, err
	}
	log.Debugf("Using profile %s in region %s", client.Profile(), client.Region())

	return &hush.Service{
		Store:     client.Secrets(),
		Identity:  client.Identity(),
		Ledger:    ledger.New(settings.LedgerFile, log),
		Encrypter: encryption.New(settings.Salt),
		Log:       log,
		Prefix:    settings.Prefix,
	}, nil
}

// GetSettings returns the resolved settings
func GetSettings() config.Settings {
	return settings
}

func offline(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations["offline"] = "true"
	return cmd
}

func isOffline(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["offline"] == "true" {
			return true
		}
	}
	return false
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
