package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// envPrefix is the prefix for environment variables that override the config file.
	// For example, GHAUTH_GITHUB_CLIENT_SECRET overrides github.client_secret.
	envPrefix = "GHAUTH"
	// configPathEnv points to the config file. It defaults to defaultConfigPath.
	configPathEnv     = "CONFIG_PATH"
	defaultConfigPath = "./config.yaml"
)

// loadWithViper reads the config file and environment variables into a Config.
func loadWithViper() (Config, error) {
	path := os.Getenv(configPathEnv)
	if path == "" {
		path = defaultConfigPath
	}
	return loadFile(path)
}

// loadFile loads the config from the given YAML file, with environment variable overrides.
func loadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine as long as the environment provides everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("error in viper.ReadInConfig call: %w", err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		// Use the same tags as the YAML representation.
		dc.TagName = "yaml"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return Config{}, fmt.Errorf("error in viper.Unmarshal call: %w", err)
	}

	return cfg, nil
}

// setDefaults registers the default value of every key.
// Every key must have a default so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("application.name", "ghauth")
	v.SetDefault("application.base_url", "http://localhost:8080")
	v.SetDefault("application.hostname", "localhost")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.pprof", false)

	v.SetDefault("http_server.addr", ":8080")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.pretty", false)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.addr", "localhost:5432")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "ghauth")
	v.SetDefault("database.timeout", 10*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("state.driver", "memory")
	v.SetDefault("state.ttl", 10*time.Minute)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "session")

	v.SetDefault("github.client_id", "")
	v.SetDefault("github.client_secret", "")
	v.SetDefault("github.scopes", []string{"read:user", "user:email"})

	v.SetDefault("routes.success_redirect", "/app")
	v.SetDefault("routes.failure_redirect", "/signin")

	v.SetDefault("allowed_origins", []string{"http://localhost"})
}
