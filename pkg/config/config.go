// Package config はアプリケーション設定を .env、YAML、環境変数から読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shouni/project-sheet-analyzer/pkg/domain"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	OpenAI   ProviderConfig `mapstructure:"openai"`
	Gemini   ProviderConfig `mapstructure:"gemini"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AnalyzerConfig struct {
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	JPEGQuality  int           `mapstructure:"jpeg_quality"`
	MaxDimension int           `mapstructure:"max_dimension"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"server.port":             "8080",
	"server.mode":             "release",
	"server.max_upload_bytes": int64(32 << 20),
	"server.shutdown_timeout": 10 * time.Second,
	"analyzer.provider":       "openai",
	"analyzer.timeout":        120 * time.Second,
	"analyzer.jpeg_quality":   75,
	"analyzer.max_dimension":  0,
	"openai.api_key":          "",
	"openai.base_url":         "",
	"openai.model":            "gpt-4o",
	"gemini.api_key":          "",
	"gemini.base_url":         "",
	"gemini.model":            "gemini-2.5-flash",
	"log.level":               "info",
}

// Load は .env（存在すれば）を読み込んだ後、既定値・設定ファイル・環境変数の順に設定を重ねます。
// 検証は行わないので、起動時に Validate を呼び出してください。
func Load(configPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, reading from environment variables")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"./config", "."}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return &c, nil
}

// Validate は起動に必要な設定が揃っているか確認します。
func (c *Config) Validate() error {
	switch strings.ToLower(c.Analyzer.Provider) {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required", domain.ErrConfiguration)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown analyzer provider %q", domain.ErrConfiguration, c.Analyzer.Provider)
	}

	if c.Analyzer.JPEGQuality < 1 || c.Analyzer.JPEGQuality > 100 {
		return fmt.Errorf("%w: analyzer.jpeg_quality must be between 1 and 100", domain.ErrConfiguration)
	}
	if c.Analyzer.Timeout <= 0 {
		return fmt.Errorf("%w: analyzer.timeout must be positive", domain.ErrConfiguration)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("%w: server.port is required", domain.ErrConfiguration)
	}
	return nil
}

// SlogLevel は log.level を slog.Level に変換します。未知の値は Info になります。
func (c LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
