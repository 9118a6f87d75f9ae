// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and writes the redtoken configuration file.
//
// Values are resolved in viper's order: bound flags, REDTOKEN_* environment
// variables, the config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "redtoken"
	envPrefix  = "redtoken"

	// FlagKeyAnnotation on a cobra flag names the config key it overrides.
	// Flags without it bind under their own name.
	FlagKeyAnnotation = "redtoken_config_key"
)

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Redtoken")
		default:
			configDir = "/etc/redtoken"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "redtoken")
	}

	return filepath.Join(configDir, configName+".yaml"), nil
}

// LoadConfig resolves a T from defaults, the first config file found, the
// environment and the flags of cmd. A missing config file is not an error
// unless configFile names it explicitly. The returned path is the file that
// was read, or empty.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, string, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if configFile != nil && *configFile != "" {
		if _, err := os.Stat(*configFile); err != nil {
			return c, "", fmt.Errorf("read config: %w", err)
		}
		v.SetConfigFile(*configFile)
	} else {
		v.AddConfigPath(".")
		if userConfigPath, err := GetConfigPath(false); err == nil {
			v.AddConfigPath(filepath.Dir(userConfigPath))
		}
		if systemConfigPath, err := GetConfigPath(true); err == nil {
			v.AddConfigPath(filepath.Dir(systemConfigPath))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, "", fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := f.Name
			if keys, ok := f.Annotations[FlagKeyAnnotation]; ok && len(keys) > 0 {
				key = keys[0]
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return c, "", bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, "", fmt.Errorf("decode config: %w", err)
	}
	return c, v.ConfigFileUsed(), nil
}

// BindFlagKey annotates flag in fs so LoadConfig binds it to key.
func BindFlagKey(fs *pflag.FlagSet, flag, key string) {
	_ = fs.SetAnnotation(flag, FlagKeyAnnotation, []string{key})
}

// WriteConfigFile writes c to the user or system config path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path with owner-only permissions,
// since channel settings may carry credentials.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0o600)
}
