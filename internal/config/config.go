// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Environment variables only, with the defaults declared on Config.
//
// A .env file in the working directory, when present, is loaded into the
// process environment first so that local overrides need no exports.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultStorageFile is the fixed SQLite filename used when no storage path
// is configured.
const DefaultStorageFile = "students.db"

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"students.db"`

	HTTPServer `yaml:"http_server"`

	Flash Flash `yaml:"flash"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr        string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_SERVER_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Flash configures the transient-notice cookie.
type Flash struct {
	SecureCookie bool `yaml:"secure_cookie" env:"FLASH_SECURE_COOKIE" env-default:"false"`
}

// Load reads the configuration. An empty path means environment only.
// A relative storage path read from a file is resolved against the
// directory holding that file; one set through STORAGE_PATH is left as is.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config.Load: config file %s: %w", path, err)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read config: %w", err)
	}

	// A STORAGE_PATH override is taken as given, relative to the working directory.
	if _, fromEnv := os.LookupEnv("STORAGE_PATH"); !fromEnv &&
		cfg.StoragePath != "" && !filepath.IsAbs(cfg.StoragePath) {
		cfg.StoragePath = filepath.Join(filepath.Dir(path), cfg.StoragePath)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
// It exits the process if the configuration cannot be loaded.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("cannot load .env file: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}
