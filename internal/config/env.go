package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DotEnvFiles returns the .env files consulted at startup, in priority
// order: the working directory first, then the config directory.
func DotEnvFiles() []string {
	return []string{".env", filepath.Join(ConfigDir(), ".env")}
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are never
// overwritten, so the first file to define a key wins.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// Setup prepares v for reading: defaults, config file search paths and
// environment overrides. cfgFile, when non-empty, replaces the search.
func Setup(v *viper.Viper, cfgFile string) {
	SetDefaultsOn(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., PROCVIEW_LOGGING_LEVEL for logging.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// ReadInConfig reads the config file if one exists. A missing file is not
// an error.
func ReadInConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
