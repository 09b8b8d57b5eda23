package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. Defaults come from an
// optional YAML file (CONFIG_FILE); environment variables override it, with
// a .env file loaded first when present.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Menu     MenuConfig
	Promo    PromoConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for mutating endpoints
}

type MenuConfig struct {
	DataDir       string // directory for persisted state files
	BaseMenuFile  string // path to the base menu document; empty = embedded default
	SettleDelayMS int    // loading-flag settle delay after a catalog change; 0 disables
}

type PromoConfig struct {
	Sources []string // gzipped promo code files (paths or URLs); empty disables promos
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	Server struct {
		Port            string `yaml:"port"`
		Host            string `yaml:"host"`
		ReadTimeout     int    `yaml:"read_timeout"`
		WriteTimeout    int    `yaml:"write_timeout"`
		ShutdownTimeout int    `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Auth struct {
		APIKeys []string `yaml:"api_keys"`
	} `yaml:"auth"`
	Menu struct {
		DataDir       string `yaml:"data_dir"`
		BaseMenuFile  string `yaml:"base_menu_file"`
		SettleDelayMS *int   `yaml:"settle_delay_ms"`
	} `yaml:"menu"`
	Promo struct {
		Sources []string `yaml:"sources"`
	} `yaml:"promo"`
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from the optional config file and environment
// variables, env winning.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the environment proper.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
		},
		Auth: AuthConfig{
			APIKeys: []string{"apitest"},
		},
		Menu: MenuConfig{
			DataDir:       "./data",
			SettleDelayMS: 1000,
		},
		LogLevel: "info",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}

	if fc.Server.Port != "" {
		c.Server.Port = fc.Server.Port
	}
	if fc.Server.Host != "" {
		c.Server.Host = fc.Server.Host
	}
	if fc.Server.ReadTimeout > 0 {
		c.Server.ReadTimeout = fc.Server.ReadTimeout
	}
	if fc.Server.WriteTimeout > 0 {
		c.Server.WriteTimeout = fc.Server.WriteTimeout
	}
	if fc.Server.ShutdownTimeout > 0 {
		c.Server.ShutdownTimeout = fc.Server.ShutdownTimeout
	}
	if len(fc.Auth.APIKeys) > 0 {
		c.Auth.APIKeys = fc.Auth.APIKeys
	}
	if fc.Menu.DataDir != "" {
		c.Menu.DataDir = fc.Menu.DataDir
	}
	if fc.Menu.BaseMenuFile != "" {
		c.Menu.BaseMenuFile = fc.Menu.BaseMenuFile
	}
	if fc.Menu.SettleDelayMS != nil {
		c.Menu.SettleDelayMS = *fc.Menu.SettleDelayMS
	}
	if len(fc.Promo.Sources) > 0 {
		c.Promo.Sources = fc.Promo.Sources
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getEnvAsInt("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Auth.APIKeys = getEnvAsSlice("API_KEYS", c.Auth.APIKeys)
	c.Menu.DataDir = getEnv("MENU_DATA_DIR", c.Menu.DataDir)
	c.Menu.BaseMenuFile = getEnv("MENU_BASE_FILE", c.Menu.BaseMenuFile)
	c.Menu.SettleDelayMS = getEnvAsInt("MENU_SETTLE_DELAY_MS", c.Menu.SettleDelayMS)
	c.Promo.Sources = getEnvAsSlice("PROMO_SOURCES", c.Promo.Sources)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if c.Menu.DataDir == "" {
		return fmt.Errorf("MENU_DATA_DIR is required")
	}

	if c.Menu.SettleDelayMS < 0 {
		return fmt.Errorf("MENU_SETTLE_DELAY_MS must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
