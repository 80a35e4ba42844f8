package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "config/config.yaml"

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Quiz struct {
		BankID   string `yaml:"bank_id"`
		BankPath string `yaml:"bank_path"`
		TTL      string `yaml:"ttl"`
		Shuffle  bool   `yaml:"shuffle"`
		Seed     int64  `yaml:"seed"`
	} `yaml:"quiz"`
	Extract struct {
		Input                string  `yaml:"input"`
		LineTolerance        float64 `yaml:"line_tolerance"`
		WordGap              float64 `yaml:"word_gap"`
		RetestContinuations  *bool   `yaml:"retest_continuations"`
		StructuralValidation *bool   `yaml:"structural_validation"`
		MaxFileSize          int64   `yaml:"max_file_size"`
	} `yaml:"extract"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Quiz.BankID = "default"
	cfg.Quiz.BankPath = "baza_pytan.json"
	cfg.Quiz.TTL = "10m"
	cfg.Redis.SessionTTL = "30m"
	cfg.Extract.Input = "quiz.pdf"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file at
// DefaultPath is not an error; any other missing path is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// BoolOr dereferences an optional flag.
func BoolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
