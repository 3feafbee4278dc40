package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server and client configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	MCP       MCPConfig       `yaml:"mcp"`
	Client    ClientConfig    `yaml:"client"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path enables a rotated log file instead of the console.
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"secret"`
	Issuer  string `yaml:"issuer"`
}

type TransportConfig struct {
	// Mode is "http" or "stdio". Stdio serves MCP only.
	Mode string `yaml:"mode"`
}

// MCPConfig is the identity MCP calls run as when auth is disabled.
type MCPConfig struct {
	UserID string `yaml:"user_id"`
	OrgID  string `yaml:"org_id"`
}

// ClientConfig configures the command-line client.
type ClientConfig struct {
	BaseURL         string `yaml:"base_url"`
	Token           string `yaml:"token"`
	UserID          string `yaml:"user_id"`
	OrgID           string `yaml:"org_id"`
	PreferencesPath string `yaml:"preferences_path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "todos.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Auth: AuthConfig{
			Issuer: "todos",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		MCP: MCPConfig{
			UserID: "local",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
		},
	}

	if path := os.Getenv("TODOS_CONFIG_PATH"); path != "" {
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

func applyEnv(cfg *Config) error {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setString("TODOS_SERVER_HOST", &cfg.Server.Host)
	if portStr := os.Getenv("TODOS_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid TODOS_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	setString("TODOS_DB_PATH", &cfg.DB.Path)
	setString("TODOS_LOG_LEVEL", &cfg.Log.Level)
	setString("TODOS_LOG_PATH", &cfg.Log.Path)
	if enabled := os.Getenv("TODOS_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid TODOS_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	setString("TODOS_AUTH_SECRET", &cfg.Auth.Secret)
	setString("TODOS_AUTH_ISSUER", &cfg.Auth.Issuer)
	setString("TODOS_TRANSPORT_MODE", &cfg.Transport.Mode)
	setString("TODOS_MCP_USER_ID", &cfg.MCP.UserID)
	setString("TODOS_MCP_ORG_ID", &cfg.MCP.OrgID)
	setString("TODOS_API_URL", &cfg.Client.BaseURL)
	setString("TODOS_TOKEN", &cfg.Client.Token)
	setString("TODOS_USER_ID", &cfg.Client.UserID)
	setString("TODOS_ORG_ID", &cfg.Client.OrgID)
	setString("TODOS_PREFERENCES_PATH", &cfg.Client.PreferencesPath)
	return nil
}

// Validate checks settings that would otherwise fail at first use.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("auth is enabled but no secret is set")
	}
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
