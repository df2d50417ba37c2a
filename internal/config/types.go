package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string `koanf:"db_name"`
	MigrationsDir string `koanf:"migrations_dir"`
	Port          string `koanf:"port"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `koanf:"log_level"`
	// SocietyID is used when a request does not name a society.
	SocietyID string      `koanf:"society_id"`
	Slack     SlackConfig `koanf:"slack"`
	Turso     TursoConfig `koanf:"turso"`
	ProjectID string      `koanf:"gcp_project"`
	// PubSubEnabled publishes result events to Google Cloud Pub/Sub.
	PubSubEnabled bool `koanf:"pubsub_enabled"`
	// AggregationConcurrency bounds concurrent ledger reads of a season aggregation.
	AggregationConcurrency int `koanf:"aggregation_concurrency"`
}

type SlackConfig struct {
	Token         string `koanf:"token"`
	ChannelID     string `koanf:"channel_id"`
	SigningSecret string `koanf:"signing_secret"`
}

type TursoConfig struct {
	PrimaryURL string `koanf:"primary_url"`
	AuthToken  string `koanf:"auth_token"`
}
