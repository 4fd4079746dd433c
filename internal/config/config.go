// Package config loads the optional sobundle.yaml config file and the
// SOBUNDLE_* environment variables into a command's options struct. Flag
// values take precedence over environment variables, which take precedence
// over the config file.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is looked up in the working directory.
	ConfigFileName = "sobundle.yaml"

	// EnvPrefix prefixes all environment variables read by viper, e.g.
	// SOBUNDLE_OUTPUT or SOBUNDLE_IGNORE_LIBC.
	EnvPrefix = "SOBUNDLE"
)

// Resolution strategies of the metadata reader. Selected once per run and
// never mixed mid-traversal.
const (
	ResolverELF = "elf"
	ResolverLDD = "ldd"
)

// ValidateResolver checks that the given strategy name is known.
func ValidateResolver(resolver string) error {
	if resolver != ResolverELF && resolver != ResolverLDD {
		return errors.Errorf("invalid resolver %q, must be %q or %q", resolver, ResolverELF, ResolverLDD)
	}
	return nil
}

// FindAndParseConfig reads the config file (if present) and the environment
// and unmarshals the merged settings into opts. The caller's flag bindings
// must already be in place, viper handles the precedence.
func FindAndParseConfig(opts any) error {
	viper.SetConfigFile(ConfigFileName)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		// A missing config file is fine, everything has defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}

	err = viper.Unmarshal(opts)
	if err != nil {
		return errors.Wrap(err, "failed to parse config")
	}
	return nil
}
