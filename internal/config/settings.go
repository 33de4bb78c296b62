package config

import (
	"github.com/spf13/viper"
)

// Defaults used when nothing else is configured
const (
	DefaultRegion     = "eu-central-1"
	DefaultPrefix     = "hush"
	DefaultLedgerFile = ".hushrc.json"
	DefaultSalt       = "hush-salt"
)

// Settings is the fully resolved configuration of one invocation
type Settings struct {
	Profile    string
	Region     string
	Prefix     string
	LedgerFile string
	Salt       string
	Verbose    bool
	Debug      bool
}

// RegionLookup returns the region configured for an AWS profile, if any
type RegionLookup func(profile string) string

// BindEnv registers the environment variables each setting is read from.
// HUSH_ variables win over the AWS ones.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("HUSH")
	v.AutomaticEnv()

	_ = v.BindEnv("profile", "HUSH_PROFILE", "AWS_PROFILE")
	_ = v.BindEnv("region", "HUSH_REGION", "AWS_REGION", "AWS_DEFAULT_REGION")
	_ = v.BindEnv("prefix", "HUSH_PREFIX")
	_ = v.BindEnv("ledger_file", "HUSH_LEDGER_FILE")
	_ = v.BindEnv("salt", "HUSH_SALT")
}

// Resolve layers flags and environment (already bound to v) over the config
// file and the built-in defaults.
//
// Priority: flag > environment > config file > profile region > default
func Resolve(v *viper.Viper, cfg *Config, lookup RegionLookup) Settings {
	if cfg == nil {
		cfg = &Config{}
	}

	setDefault(v, "profile", cfg.Profile, "")
	setDefault(v, "prefix", cfg.Prefix, DefaultPrefix)
	setDefault(v, "ledger_file", cfg.LedgerFile, DefaultLedgerFile)
	setDefault(v, "salt", "", DefaultSalt)

	s := Settings{
		Profile:    v.GetString("profile"),
		Region:     v.GetString("region"),
		Prefix:     v.GetString("prefix"),
		LedgerFile: v.GetString("ledger_file"),
		Salt:       v.GetString("salt"),
		Verbose:    v.GetBool("verbose"),
		Debug:      v.GetBool("debug"),
	}

	if s.Region == "" {
		s.Region = cfg.Region
	}
	if s.Region == "" && lookup != nil && s.Profile != "" {
		s.Region = lookup(s.Profile)
	}
	if s.Region == "" {
		s.Region = DefaultRegion
	}

	return s
}

func setDefault(v *viper.Viper, key, fromFile, fallback string) {
	if fromFile != "" {
		v.SetDefault(key, fromFile)
		return
	}
	if fallback != "" {
		v.SetDefault(key, fallback)
	}
}
