package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	Database       DatabaseConfig       `yaml:"database" toml:"database"`
	Server         ServerConfig         `yaml:"server" toml:"server"`
	Telemetry      TelemetryConfig      `yaml:"telemetry" toml:"telemetry"`
	LeaderElection LeaderElectionConfig `yaml:"leader_election" toml:"leader_election"`
	Notify         NotifyConfig         `yaml:"notify" toml:"notify"`
	Snapshot       SnapshotConfig       `yaml:"snapshot" toml:"snapshot"`
	Discord        DiscordConfig        `yaml:"discord" toml:"discord"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string `yaml:"driver" toml:"driver"` // "postgres" or "sqlite"
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	DBName   string `yaml:"dbname" toml:"dbname"`
	SSLMode  string `yaml:"sslmode" toml:"sslmode"`
	// Path is the SQLite database file.
	Path string `yaml:"path" toml:"path"`
	// URL, when set, is used verbatim instead of the fields above.
	URL string `yaml:"url" toml:"url"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverSQLite {
		return "file:" + d.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" toml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	// JWTSecret enables bearer-token auth on write routes when non-empty.
	JWTSecret string `yaml:"jwt_secret" toml:"jwt_secret"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" toml:"service_name"`
	ServiceVersion string `yaml:"service_version" toml:"service_version"`
	// OTLPEndpoint enables OTLP export; empty keeps telemetry local.
	OTLPEndpoint string `yaml:"otlp_endpoint" toml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure" toml:"insecure"`
}

// LeaderElectionConfig holds Kubernetes leader election settings.
type LeaderElectionConfig struct {
	Enabled        bool          `yaml:"enabled" toml:"enabled"`
	LeaseName      string        `yaml:"lease_name" toml:"lease_name"`
	LeaseNamespace string        `yaml:"lease_namespace" toml:"lease_namespace"`
	LeaseDuration  time.Duration `yaml:"lease_duration" toml:"lease_duration"`
	RenewDeadline  time.Duration `yaml:"renew_deadline" toml:"renew_deadline"`
	RetryPeriod    time.Duration `yaml:"retry_period" toml:"retry_period"`
	// Identity defaults to POD_NAME, then the hostname.
	Identity string `yaml:"identity" toml:"identity"`
}

// NotifyConfig holds change-notification settings.
type NotifyConfig struct {
	// NATSURL enables publishing to NATS; empty disables notifications.
	NATSURL string `yaml:"nats_url" toml:"nats_url"`
}

// SnapshotConfig controls periodic JSONL exports of the event table.
type SnapshotConfig struct {
	// Interval of zero disables the scheduler.
	Interval time.Duration `yaml:"interval" toml:"interval"`
	// Dir receives events.jsonl when set.
	Dir        string `yaml:"dir" toml:"dir"`
	S3Bucket   string `yaml:"s3_bucket" toml:"s3_bucket"`
	S3Key      string `yaml:"s3_key" toml:"s3_key"`
	S3Region   string `yaml:"s3_region" toml:"s3_region"`
	S3Endpoint string `yaml:"s3_endpoint" toml:"s3_endpoint"`
}

// DiscordConfig holds Discord bot settings. The bot is off without a token.
type DiscordConfig struct {
	Token   string `yaml:"token" toml:"token"`
	GuildID string `yaml:"guild_id" toml:"guild_id"`
}

// Environment variables that override file values.
const (
	EnvDatabaseURL      = "EVENTDESK_DATABASE_URL"
	EnvDatabasePassword = "EVENTDESK_DATABASE_PASSWORD"
	EnvDiscordToken     = "EVENTDESK_DISCORD_TOKEN"
	EnvJWTSecret        = "EVENTDESK_JWT_SECRET"
	EnvNATSURL          = "EVENTDESK_NATS_URL"
)

// Default returns the configuration used when a file leaves values unset.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:  DriverSQLite,
			Path:    "events.db",
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "eventdesk",
			ServiceVersion: "0.1.0",
		},
		LeaderElection: LeaderElectionConfig{
			Enabled:        false,
			LeaseName:      "eventdesk-leader",
			LeaseNamespace: "default",
			LeaseDuration:  15 * time.Second,
			RenewDeadline:  10 * time.Second,
			RetryPeriod:    2 * time.Second,
		},
		Snapshot: SnapshotConfig{
			S3Key:    "eventdesk/events.jsonl",
			S3Region: "us-east-1",
		},
	}
}

// Load reads a YAML (or, for *.toml paths, TOML) configuration file, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&c.Database.URL, EnvDatabaseURL)
	override(&c.Database.Password, EnvDatabasePassword)
	override(&c.Discord.Token, EnvDiscordToken)
	override(&c.Server.JWTSecret, EnvJWTSecret)
	override(&c.Notify.NATSURL, EnvNATSURL)
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.Database.Path == "" && c.Database.URL == "" {
			return fmt.Errorf("sqlite driver needs database.path or database.url")
		}
	default:
		return fmt.Errorf("unsupported database driver %q: must be %q or %q", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Snapshot.Interval < 0 {
		return fmt.Errorf("snapshot.interval must not be negative")
	}
	if c.Snapshot.Interval > 0 && c.Snapshot.Dir == "" && c.Snapshot.S3Bucket == "" {
		return fmt.Errorf("snapshot.interval is set but neither snapshot.dir nor snapshot.s3_bucket is")
	}
	return nil
}
