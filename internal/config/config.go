// Package config загружает настройки сервера и клиента из YAML файла
// и переменных окружения MYTHIC_*.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// MaxYAMLFileSize максимальный размер файла конфигурации (1MB)
const MaxYAMLFileSize = 1024 * 1024

// ErrFileTooLarge returned when the config file exceeds MaxYAMLFileSize
var ErrFileTooLarge = errors.New("config file too large")

// Config корневая конфигурация
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
}

// LogConfig настройки логирования
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // auto, text или json
}

// ServerConfig настройки backend
type ServerConfig struct {
	Addr             string        `yaml:"addr"`
	DBPath           string        `yaml:"db_path"`
	JWTSecret        string        `yaml:"jwt_secret"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	RateWindow       time.Duration `yaml:"rate_window"`
	RateLimit        int           `yaml:"rate_limit"`
	SessionRateLimit int           `yaml:"session_rate_limit"`
	SubscriberBuffer int           `yaml:"subscriber_buffer"`
}

// ClientConfig настройки клиента
type ClientConfig struct {
	ServerURL          string `yaml:"server_url"`
	DataDir            string `yaml:"data_dir"`
	MetricsAddr        string `yaml:"metrics_addr"`
	SubscriptionBuffer int    `yaml:"subscription_buffer"`
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Server: ServerConfig{
			Addr:             ":8080",
			DBPath:           "mythic.db",
			SessionTTL:       24 * time.Hour,
			ShutdownTimeout:  10 * time.Second,
			RateWindow:       time.Minute,
			RateLimit:        600,
			SessionRateLimit: 30,
			SubscriberBuffer: 64,
		},
		Client: ClientConfig{
			ServerURL:          "http://localhost:8080",
			DataDir:            ".mythic",
			SubscriptionBuffer: 64,
		},
	}
}

// Load читает конфигурацию: сначала значения по умолчанию, затем файл path
// (если задан), затем переменные окружения MYTHIC_* через viper.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}
	if info.Size() > MaxYAMLFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), MaxYAMLFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// decode поверх cfg; неизвестные ключи считаются ошибкой
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// envKeys связывает ключи конфигурации с переменными окружения
var envKeys = map[string]string{
	"log.level":                  "MYTHIC_LOG_LEVEL",
	"log.format":                 "MYTHIC_LOG_FORMAT",
	"server.addr":                "MYTHIC_SERVER_ADDR",
	"server.db_path":             "MYTHIC_DB_PATH",
	"server.jwt_secret":          "MYTHIC_JWT_SECRET",
	"server.session_ttl":         "MYTHIC_SESSION_TTL",
	"server.shutdown_timeout":    "MYTHIC_SHUTDOWN_TIMEOUT",
	"server.rate_window":         "MYTHIC_RATE_WINDOW",
	"server.rate_limit":          "MYTHIC_RATE_LIMIT",
	"server.session_rate_limit":  "MYTHIC_SESSION_RATE_LIMIT",
	"server.subscriber_buffer":   "MYTHIC_SUBSCRIBER_BUFFER",
	"client.server_url":          "MYTHIC_SERVER_URL",
	"client.data_dir":            "MYTHIC_DATA_DIR",
	"client.metrics_addr":        "MYTHIC_METRICS_ADDR",
	"client.subscription_buffer": "MYTHIC_SUBSCRIPTION_BUFFER",
}

// applyEnv накладывает заданные переменные окружения поверх cfg.
// Незаданные переменные не меняют значения из файла.
func applyEnv(cfg *Config) error {
	v := viper.New()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}
