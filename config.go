package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	SaveDirectory string      `toml:"save_directory"`
	Confirmations bool        `toml:"confirmations"`
	Theme         string      `toml:"theme" validate:"oneof=light dark"`
	Store         StoreConfig `toml:"store"`
	Log           LogConfig   `toml:"log"`
}

type StoreConfig struct {
	Backend       string `toml:"backend" validate:"oneof=file redis memory"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"min=0"`
	KeyPrefix     string `toml:"key_prefix"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

func DefaultConfig() *Config {
	return &Config{
		Confirmations: true,
		Theme:         "light",
		Store: StoreConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			KeyPrefix: "mindboard:",
		},
		Log: LogConfig{Level: "info"},
	}
}

// ConfigDir returns the mindboard config directory.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mindboard")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadConfig reads config.toml (missing file means defaults), applies .env
// and MINDBOARD_* environment overrides and validates the result.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath(), err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.SaveDirectory = expandPath(cfg.SaveDirectory)
	cfg.Store.Dir = expandPath(cfg.Store.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.SaveDirectory = getEnv("MINDBOARD_SAVE_DIRECTORY", c.SaveDirectory)
	c.Theme = getEnv("MINDBOARD_THEME", c.Theme)
	c.Store.Backend = getEnv("MINDBOARD_STORE", c.Store.Backend)
	c.Store.Dir = getEnv("MINDBOARD_STORE_DIR", c.Store.Dir)
	c.Store.RedisAddr = getEnv("MINDBOARD_REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("MINDBOARD_REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvAsInt("MINDBOARD_REDIS_DB", c.Store.RedisDB)
	c.Log.File = getEnv("MINDBOARD_LOG_FILE", c.Log.File)
	c.Log.Level = getEnv("MINDBOARD_LOG_LEVEL", c.Log.Level)
	if v := os.Getenv("MINDBOARD_CONFIRMATIONS"); v != "" {
		c.Confirmations = strings.ToLower(v) == "true"
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Namespace())
		field = strings.TrimPrefix(field, "config.")
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// GetSavePath places export files in the save directory when one is set,
// creating the directory if needed.
func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}

// StoreDirectory is where the file store keeps documents.
func (c *Config) StoreDirectory() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	if c.SaveDirectory != "" {
		return c.SaveDirectory
	}
	return filepath.Join(ConfigDir(), "data")
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if absPath, err := filepath.Abs(p); err == nil {
			p = absPath
		}
	}
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
