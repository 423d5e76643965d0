package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultStorageKey      = "bjj_flow_journal_v4"
	DefaultInsightBaseURL  = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultInsightModel    = "gemini-2.5-pro"
	DefaultInsightLanguage = "Brazilian Portuguese"
	DefaultServerAddr      = "127.0.0.1:7420"
)

type StorageConfig struct {
	Key        string   `mapstructure:"key"`
	LegacyKeys []string `mapstructure:"legacy_keys"`
}

type InsightConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	APIKey          string        `mapstructure:"api_key"`
	Language        string        `mapstructure:"language"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxPromptTokens int           `mapstructure:"max_prompt_tokens"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type ProfileConfig struct {
	Name    string `mapstructure:"name"`
	Belt    string `mapstructure:"belt"`
	Stripes int    `mapstructure:"stripes"`
	Academy string `mapstructure:"academy"`
}

type Config struct {
	DataDir    string `mapstructure:"-"`
	DBPath     string `mapstructure:"-"`
	LogPath    string `mapstructure:"-"`
	ConfigPath string `mapstructure:"-"`

	LogLevel string        `mapstructure:"log_level"`
	Storage  StorageConfig `mapstructure:"storage"`
	Insight  InsightConfig `mapstructure:"insight"`
	Server   ServerConfig  `mapstructure:"server"`
	Profile  ProfileConfig `mapstructure:"profile"`
}

// DefaultDataDir is ~/.bjjflow, or .bjjflow in the working directory when
// the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bjjflow"
	}
	return filepath.Join(home, ".bjjflow")
}

// New derives file locations under dataDir and fills defaults without
// reading any file.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, "bjjflow.db"),
		LogPath:    filepath.Join(dataDir, "bjjflow.log"),
		ConfigPath: filepath.Join(dataDir, "config.yaml"),
		LogLevel:   "info",
		Storage: StorageConfig{
			Key:        DefaultStorageKey,
			LegacyKeys: []string{"bjj_flow_journal_v3", "bjj_flow_journal_v2", "bjj_flow_journal_v1"},
		},
		Insight: InsightConfig{
			BaseURL:         DefaultInsightBaseURL,
			Model:           DefaultInsightModel,
			Language:        DefaultInsightLanguage,
			Timeout:         60 * time.Second,
			MaxPromptTokens: 2000,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}, nil
}

// Load merges <dataDir>/config.yaml and BJJFLOW_* environment variables over
// the defaults from New. A missing config file is not an error.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v, cfg)
	v.SetConfigFile(cfg.ConfigPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BJJFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("insight.api_key", "BJJFLOW_INSIGHT_API_KEY", "BJJFLOW_API_KEY", "API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", cfg.ConfigPath, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		cfg.Storage.Key = DefaultStorageKey
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("storage.key", cfg.Storage.Key)
	v.SetDefault("storage.legacy_keys", cfg.Storage.LegacyKeys)
	v.SetDefault("insight.base_url", cfg.Insight.BaseURL)
	v.SetDefault("insight.model", cfg.Insight.Model)
	v.SetDefault("insight.api_key", "")
	v.SetDefault("insight.language", cfg.Insight.Language)
	v.SetDefault("insight.timeout", cfg.Insight.Timeout)
	v.SetDefault("insight.max_prompt_tokens", cfg.Insight.MaxPromptTokens)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("profile.name", "")
	v.SetDefault("profile.belt", "")
	v.SetDefault("profile.stripes", 0)
	v.SetDefault("profile.academy", "")
}

// MaskedAPIKey keeps the last four characters of the key for display.
func (c Config) MaskedAPIKey() string {
	key := c.Insight.APIKey
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
