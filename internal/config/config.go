package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SkillCore holds configuration for the skill progression core tooling.
type SkillCore struct {
	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Database
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSkillCore returns SkillCore config with sensible defaults.
func DefaultSkillCore() SkillCore {
	return SkillCore{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "payday",
			Password: "payday",
			DBName:   "payday",
			SSLMode:  "disable",
		},
	}
}

// LoadSkillCore loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSkillCore(path string) (SkillCore, error) {
	cfg := DefaultSkillCore()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
