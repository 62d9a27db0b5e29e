package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"fooddelivery/pkg/log"
)

var (
	// GlobalConfig holds the global configuration instance
	GlobalConfig *Config
)

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("/etc/fooddelivery")
		v.AddConfigPath("$HOME/.fooddelivery")
	}

	// Environment variables
	v.SetEnvPrefix("FOODDELIVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Hot reload: re-unmarshal on file change. Consumers that cache
	// values at startup keep their snapshot.
	v.OnConfigChange(func(e fsnotify.Event) {
		log.WithField("file", e.Name).Info("Config file changed, reloading")

		reloaded := &Config{}
		if err := v.Unmarshal(reloaded); err != nil {
			log.WithError(err).Error("Failed to reload config")
			return
		}
		reloaded.SetDefaults()
		if err := reloaded.Validate(); err != nil {
			log.WithError(err).Error("Reloaded config is invalid, keeping previous")
			return
		}
		GlobalConfig = reloaded
	})
	v.WatchConfig()

	GlobalConfig = config

	return config, nil
}

// GetConfig returns the global configuration instance
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("Config not loaded. Call LoadConfig first.")
	}
	return GlobalConfig
}
