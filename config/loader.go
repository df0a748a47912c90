package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file name without extension.
const FileName = ".deadfiles"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for deadfiles settings.
const envPrefix = "DEADFILES"

// DefaultLibRoot is the library root of a Dart package relative to the package root.
const DefaultLibRoot = "lib"

// FlagKeys maps command line flag names to configuration keys.
var FlagKeys = map[string]string{
	"lib-root":       "lib_root",
	"package":        "package_name",
	"entry":          "entry_points",
	"ext":            "extension",
	"builtin-prefix": "builtin_prefixes",
	"exclude":        "exclude",
	"ignore-file":    "ignore_file",
	"output":         "output",
	"format":         "format",
	"debug":          "debug",
}

// LoadConfig loads configuration from defaults, config file, .env, env vars and flags (in increasing priority).
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME. Missing config file is not an error.
// Empty package name is read from pubspec.yaml next to the lib root.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	// Variables already set in environment win over .env file.
	_ = godotenv.Load()

	viperCfg := viper.New()
	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(FileName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	if flags != nil {
		for flagName, key := range FlagKeys {
			f := flags.Lookup(flagName)
			if f == nil {
				continue
			}
			if err := viperCfg.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flagName, err)
			}
		}
	}

	var cfg Config
	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	if cfg.PackageName == "" && cfg.LibRoot != "" {
		name, err := PackageNameFromPubspec(cfg.LibRoot)
		if err != nil {
			return nil, fmt.Errorf("package_name not configured and cannot be detected: %w", err)
		}
		cfg.PackageName = name
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	d := Default()

	viperCfg.SetDefault("lib_root", d.LibRoot)
	viperCfg.SetDefault("package_name", "")
	viperCfg.SetDefault("entry_points", d.EntryPoints)
	viperCfg.SetDefault("extension", d.Extension)
	viperCfg.SetDefault("builtin_prefixes", d.BuiltinPrefixes)
	viperCfg.SetDefault("exclude", d.Exclude)
	viperCfg.SetDefault("ignore_file", d.IgnoreFile)
	viperCfg.SetDefault("output", d.Output)
	viperCfg.SetDefault("format", d.Format)
	viperCfg.SetDefault("debug", false)
}
