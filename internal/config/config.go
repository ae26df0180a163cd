package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"smartdash/internal/db"
	"smartdash/internal/resolver"
	"smartdash/internal/translate"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const FileName = "config.yaml"

type Config struct {
	DataDir        string          `yaml:"data_dir"`
	SimulatedDelay time.Duration   `yaml:"simulated_delay"`
	Translate      TranslateConfig `yaml:"translate"`
	Log            LogConfig       `yaml:"log"`
	Server         ServerConfig    `yaml:"server"`
}

type TranslateConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	LangPair  string        `yaml:"lang_pair"`
	Timeout   time.Duration `yaml:"timeout"` // 0 waits forever
	CacheSize int           `yaml:"cache_size"`
}

type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"` // relative paths resolve against DataDir
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Default() *Config {
	return &Config{
		SimulatedDelay: resolver.DefaultDelay,
		Translate: TranslateConfig{
			Endpoint:  translate.DefaultEndpoint,
			LangPair:  translate.DefaultLangPair,
			CacheSize: 128,
		},
		Log: LogConfig{
			Enabled: true,
			Level:   "info",
			File:    "smartdash.log",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. An empty path means the file in the default
// data dir; a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		dir, err := db.DefaultDataDir()
		if err == nil {
			path = filepath.Join(dir, FileName)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.DataDir == "" {
		dir, err := db.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	cfg.DataDir = expandHomePath(cfg.DataDir)
	if cfg.Log.File != "" && !filepath.IsAbs(cfg.Log.File) {
		cfg.Log.File = filepath.Join(cfg.DataDir, cfg.Log.File)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DataDir = getEnvOrDefault("SMARTDASH_DATA_DIR", cfg.DataDir)
	cfg.SimulatedDelay = getEnvAsDurationOrDefault("SMARTDASH_DELAY", cfg.SimulatedDelay)
	cfg.Translate.Endpoint = getEnvOrDefault("SMARTDASH_TRANSLATE_ENDPOINT", cfg.Translate.Endpoint)
	cfg.Translate.Timeout = getEnvAsDurationOrDefault("SMARTDASH_TRANSLATE_TIMEOUT", cfg.Translate.Timeout)
	cfg.Translate.CacheSize = getEnvAsIntOrDefault("SMARTDASH_TRANSLATE_CACHE", cfg.Translate.CacheSize)
	cfg.Log.Enabled = getEnvAsBoolOrDefault("SMARTDASH_LOG_ENABLED", cfg.Log.Enabled)
	cfg.Log.Level = getEnvOrDefault("SMARTDASH_LOG_LEVEL", cfg.Log.Level)
	cfg.Server.Addr = getEnvOrDefault("SMARTDASH_ADDR", cfg.Server.Addr)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func expandHomePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
