package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Agency    AgencyConfig    `yaml:"agency"`
	Export    ExportConfig    `yaml:"export"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // stdio or http
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// AgencyConfig feeds the outbound greeting.
type AgencyConfig struct {
	Name        string `yaml:"name"`
	CountryCode string `yaml:"country_code"`
}

type ExportConfig struct {
	Driver    string `yaml:"driver"` // fs or s3
	Dir       string `yaml:"dir"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "agencyops.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Agency: AgencyConfig{
			Name:        "AceWeb",
			CountryCode: "55",
		},
		Export: ExportConfig{
			Driver: "fs",
			Dir:    "exports",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("AGENCYOPS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid db driver %q: want sqlite or postgres", c.DB.Driver)
	}
	switch c.Export.Driver {
	case "fs":
	case "s3":
		if c.Export.Bucket == "" {
			return fmt.Errorf("export driver s3 requires a bucket")
		}
	default:
		return fmt.Errorf("invalid export driver %q: want fs or s3", c.Export.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "AGENCYOPS_SERVER_HOST")
	if err := setInt(&cfg.Server.Port, "AGENCYOPS_SERVER_PORT"); err != nil {
		return err
	}
	setString(&cfg.Transport.Mode, "AGENCYOPS_TRANSPORT_MODE")
	if err := setBool(&cfg.Auth.Enabled, "AGENCYOPS_AUTH_ENABLED"); err != nil {
		return err
	}
	setString(&cfg.DB.Driver, "AGENCYOPS_DB_DRIVER")
	setString(&cfg.DB.DSN, "AGENCYOPS_DB_DSN")
	setString(&cfg.Log.Level, "AGENCYOPS_LOG_LEVEL")
	setString(&cfg.Log.Path, "AGENCYOPS_LOG_PATH")
	setString(&cfg.Agency.Name, "AGENCYOPS_AGENCY_NAME")
	setString(&cfg.Agency.CountryCode, "AGENCYOPS_AGENCY_COUNTRY_CODE")
	setString(&cfg.Export.Driver, "AGENCYOPS_EXPORT_DRIVER")
	setString(&cfg.Export.Dir, "AGENCYOPS_EXPORT_DIR")
	setString(&cfg.Export.Bucket, "AGENCYOPS_EXPORT_BUCKET")
	setString(&cfg.Export.Prefix, "AGENCYOPS_EXPORT_PREFIX")
	setString(&cfg.Export.Region, "AGENCYOPS_EXPORT_REGION")
	setString(&cfg.Export.Endpoint, "AGENCYOPS_EXPORT_ENDPOINT")
	if err := setBool(&cfg.Export.PathStyle, "AGENCYOPS_EXPORT_PATH_STYLE"); err != nil {
		return err
	}
	return setBool(&cfg.Metrics.Enabled, "AGENCYOPS_METRICS_ENABLED")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
