package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath names the environment variable holding the config file path.
	EnvConfigPath     = "APP_CONFIG"
	DefaultConfigPath = "env/config.yaml"

	DefaultUserAgent        = "market-analysis-mcp/0.1"
	DefaultTimeoutSeconds   = 10
	DefaultMaxContentLength = 5_000_000
	DefaultReportsDir       = "reports"
	DefaultSourcesDir       = "sources"
	DefaultMaxChars         = 500
	DefaultPosition         = "unknown"
	DefaultLogDir           = "./logs"
	DefaultServerAddr       = ":8000"
)

type HTTPConfig struct {
	UserAgent        string   `yaml:"user_agent"`
	TimeoutSeconds   int      `yaml:"timeout_seconds"`
	MaxContentLength int64    `yaml:"max_content_length"`
	AllowDomains     []string `yaml:"allow_domains"`
}

type PathsConfig struct {
	ReportsDir string `yaml:"reports_dir"`
	SourcesDir string `yaml:"sources_dir"`
}

type ExcerptConfig struct {
	MaxChars        int    `yaml:"max_chars"`
	DefaultPosition string `yaml:"default_position"`
}

type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// StorageConfig points at an optional MinIO bucket that mirrors saved files.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Secure    bool   `yaml:"secure"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is loaded fresh for every tool invocation and never mutated afterwards.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Paths    PathsConfig    `yaml:"paths"`
	Excerpts ExcerptConfig  `yaml:"excerpts"`
	Logging  LoggingConfig  `yaml:"logging"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
}

// Default returns the built-in configuration. Keys missing from the file keep
// these values.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			UserAgent:        DefaultUserAgent,
			TimeoutSeconds:   DefaultTimeoutSeconds,
			MaxContentLength: DefaultMaxContentLength,
		},
		Paths: PathsConfig{
			ReportsDir: DefaultReportsDir,
			SourcesDir: DefaultSourcesDir,
		},
		Excerpts: ExcerptConfig{
			MaxChars:        DefaultMaxChars,
			DefaultPosition: DefaultPosition,
		},
		Logging: LoggingConfig{
			Dir:   DefaultLogDir,
			Level: "info",
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// LoadConfig reads the YAML file at path. An empty path falls back to
// $APP_CONFIG and then to env/config.yaml. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = getEnv(EnvConfigPath, DefaultConfigPath)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default().withEnv(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.withDefaults().withEnv(), nil
}

// withDefaults restores values that cannot be meaningful when blank or
// non-positive. Numeric zeros elsewhere are honored: max_chars 0 yields empty
// excerpts and max_content_length <= 0 disables the cap.
func (c Config) withDefaults() Config {
	d := Default()
	if strings.TrimSpace(c.HTTP.UserAgent) == "" {
		c.HTTP.UserAgent = d.HTTP.UserAgent
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = d.HTTP.TimeoutSeconds
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = d.Paths.ReportsDir
	}
	if c.Paths.SourcesDir == "" {
		c.Paths.SourcesDir = d.Paths.SourcesDir
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = d.Logging.Dir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	return c
}

// withEnv lets secrets live outside the YAML file.
func (c Config) withEnv() Config {
	c.Storage.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnv("MINIO_SECRET_KEY", c.Storage.SecretKey)
	c.Database.DSN = getEnv("DATABASE_DSN", c.Database.DSN)
	return c
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
