package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	convey.Convey("Given the configuration loader", t, func() {
		convey.Convey("When nothing is set", func() {
			cfg, err := Load()

			convey.Convey("Then the defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBName, convey.ShouldEqual, "oom.db")
				convey.So(cfg.Port, convey.ShouldEqual, "8080")
				convey.So(cfg.AggregationConcurrency, convey.ShouldEqual, 8)
				convey.So(cfg.SlackEnabled(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When environment variables are set", func() {
			t.Setenv("OOM_DB_NAME", "society.db")
			t.Setenv("OOM_SOCIETY_ID", "wanderers")
			t.Setenv("OOM_SLACK__TOKEN", "xoxb-test")
			t.Setenv("OOM_SLACK__CHANNEL_ID", "C123")
			t.Setenv("OOM_AGGREGATION_CONCURRENCY", "3")
			t.Setenv("OOM_LOG_LEVEL", "debug")
			cfg, err := Load()

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBName, convey.ShouldEqual, "society.db")
				convey.So(cfg.SocietyID, convey.ShouldEqual, "wanderers")
				convey.So(cfg.Slack.Token, convey.ShouldEqual, "xoxb-test")
				convey.So(cfg.Slack.ChannelID, convey.ShouldEqual, "C123")
				convey.So(cfg.AggregationConcurrency, convey.ShouldEqual, 3)
				convey.So(cfg.SlackEnabled(), convey.ShouldBeTrue)
				convey.So(cfg.Level(), convey.ShouldEqual, log.DebugLevel)
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := filepath.Join(t.TempDir(), "oom.yaml")
			yaml := "port: \"9090\"\nsociety_id: from-file\nturso:\n  primary_url: libsql://society.turso.io\n  auth_token: secret\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			t.Setenv("OOM_CONFIG", path)
			t.Setenv("OOM_SOCIETY_ID", "from-env")
			cfg, err := Load()

			convey.Convey("Then the file is layered below the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "9090")
				convey.So(cfg.SocietyID, convey.ShouldEqual, "from-env")
				convey.So(cfg.Turso.PrimaryURL, convey.ShouldEqual, "libsql://society.turso.io")
				convey.So(cfg.Turso.AuthToken, convey.ShouldEqual, "secret")
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			t.Setenv("OOM_PUBSUB_ENABLED", "true")
			_, err := Load()

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "gcp_project")
			})
		})
	})
}

func TestEnvKey(t *testing.T) {
	convey.Convey("Environment names map to koanf keys", t, func() {
		convey.So(envKey("OOM_DB_NAME"), convey.ShouldEqual, "db_name")
		convey.So(envKey("OOM_SLACK__CHANNEL_ID"), convey.ShouldEqual, "slack.channel_id")
	})
}

func TestLevel(t *testing.T) {
	convey.Convey("Unknown log levels fall back to info", t, func() {
		convey.So(Config{LogLevel: "loud"}.Level(), convey.ShouldEqual, log.InfoLevel)
		convey.So(Config{LogLevel: "warn"}.Level(), convey.ShouldEqual, log.WarnLevel)
	})
}
