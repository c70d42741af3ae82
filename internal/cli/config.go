package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ralt/pkgcompare/internal/models"
	"github.com/ralt/pkgcompare/internal/output"
	"github.com/ralt/pkgcompare/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultBase      = "p10"
	defaultCandidate = "sisyphus"
)

// initConfig points v at the config file and the environment and sets defaults.
func initConfig(v *viper.Viper) {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".pkgcompare") // Name of config file (without extension)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	// PKGCOMPARE_BASE_URL, PKGCOMPARE_GPG_PASSPHRASE, ...
	v.SetEnvPrefix("PKGCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base-url", source.DefaultBaseURL)
	v.SetDefault("timeout", source.DefaultTimeout)
	v.SetDefault("known-branches", source.DefaultKnownBranches)
	v.SetDefault("base", defaultBase)
	v.SetDefault("candidate", defaultCandidate)
	v.SetDefault("output", output.SelectAll)
	v.SetDefault("output-dir", ".")
	v.SetDefault("key", "arch-name")
	v.SetDefault("shape", "grouped")
	v.SetDefault("compress", "none")
	v.SetDefault("color", "auto")
	v.SetDefault("checksum", "none")
}

// loadConfig merges defaults, config file, environment and the flags of cmd.
func loadConfig(v *viper.Viper, cmd *cobra.Command) (*models.CompareConfig, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, "flags", err)
	}
	initConfig(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, models.NewError(models.ErrInvalidConfig, "config file",
				fmt.Errorf("error reading config file: %w", err))
		}
		// Config file not found; defaults, env and flags still apply
	}

	var config models.CompareConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, "config",
			fmt.Errorf("unable to unmarshal config: %w", err))
	}
	return &config, nil
}
