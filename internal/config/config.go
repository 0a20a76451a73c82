package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvDBPath         = "NAVKIT_DB_PATH"
	EnvDBType         = "NAVKIT_DB_TYPE"
	EnvPort           = "NAVKIT_PORT"
	EnvLogLevel       = "NAVKIT_LOG_LEVEL"
	EnvEnvironment    = "NAVKIT_ENV"
	EnvFallbackTenant = "NAVKIT_FALLBACK_TENANT"
	EnvMenuFile       = "NAVKIT_MENU_FILE"
)

// Config represents .navkit/config.yaml
type Config struct {
	Version  string         `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Routing  RoutingConfig  `yaml:"routing"`
	Menu     MenuConfig     `yaml:"menu"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds storage settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
	Type string `yaml:"type,omitempty"` // sqlite | duckdb, 비어 있으면 자동
}

// RoutingConfig holds path builder settings
type RoutingConfig struct {
	FallbackTenant string `yaml:"fallback_tenant"`
}

// MenuConfig holds static menu settings
type MenuConfig struct {
	File  string `yaml:"file,omitempty"`
	Watch bool   `yaml:"watch"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

// Default returns the default config
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Port: 9010,
		},
		Database: DatabaseConfig{
			Path: GlobalDBPath(),
		},
		Routing: RoutingConfig{
			FallbackTenant: "default",
		},
		Log: LogConfig{
			Level:       "info",
			Environment: "development",
		},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}

	// .env 파일은 선택 사항
	_ = godotenv.Load()
	cfg.ApplyEnv()

	return cfg, nil
}

// ApplyEnv overrides fields from NAVKIT_* environment variables
func (c *Config) ApplyEnv() {
	c.Database.Path = getEnv(EnvDBPath, c.Database.Path)
	c.Database.Type = getEnv(EnvDBType, c.Database.Type)
	c.Server.Port = getEnvAsInt(EnvPort, c.Server.Port)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Environment = getEnv(EnvEnvironment, c.Log.Environment)
	c.Routing.FallbackTenant = getEnv(EnvFallbackTenant, c.Routing.FallbackTenant)
	c.Menu.File = getEnv(EnvMenuFile, c.Menu.File)
}

// Save writes cfg to path
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("디렉토리 생성 실패: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("설정 직렬화 실패: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("설정 파일 저장 실패: %w", err)
	}

	return nil
}

// Fields returns the config as zap fields for startup logging
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("port", c.Server.Port),
		zap.String("db_path", c.Database.Path),
		zap.String("db_type", c.Database.Type),
		zap.String("fallback_tenant", c.Routing.FallbackTenant),
		zap.String("menu_file", c.Menu.File),
		zap.Bool("menu_watch", c.Menu.Watch),
		zap.String("log_level", c.Log.Level),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
