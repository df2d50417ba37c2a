package config

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "OOM_"

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DBName:                 "oom.db",
		MigrationsDir:          "./migrations",
		Port:                   "8080",
		LogLevel:               "info",
		AggregationConcurrency: 8,
	}
}

// Load builds the configuration by layering, from low to high precedence:
//  1. defaults
//  2. the YAML file named by OOM_CONFIG, if set
//  3. OOM_ prefixed environment variables, with "__" separating sections
//     (OOM_SLACK__TOKEN sets slack.token)
//
// A .env file, when present, is loaded into the environment first. PORT is honoured as the
// platform provided listen port.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg := Default()
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	k := koanf.New(".")
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, err
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps OOM_SLACK__CHANNEL_ID to slack.channel_id.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate reports the first setting that prevents the service from starting.
func (c Config) Validate() error {
	if c.DBName == "" && c.Turso.PrimaryURL == "" {
		return errors.New("db_name or turso.primary_url must be set")
	}
	if c.Turso.PrimaryURL != "" && c.Turso.AuthToken == "" {
		return errors.New("turso.auth_token is required with turso.primary_url")
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.PubSubEnabled && c.ProjectID == "" {
		return errors.New("gcp_project is required when pubsub is enabled")
	}
	if c.AggregationConcurrency < 1 {
		return errors.New("aggregation_concurrency must be at least 1")
	}
	return nil
}

// SlackEnabled reports whether notifications can be posted.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}

// Level parses LogLevel, defaulting to info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
