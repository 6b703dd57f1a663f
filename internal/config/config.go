// Package config loads ChemMaster settings from defaults, an optional
// YAML file and CHEMMASTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/llm"
	"github.com/chemmaster/chemmaster/internal/logging"
	"github.com/chemmaster/chemmaster/internal/store"
)

// Config is the full application configuration.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LLMConfig overrides the provider settings discovered from the
// environment. Empty values keep the discovered ones.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type GatewayConfig struct {
	QuizModel      string `mapstructure:"quiz_model"`
	SummaryModel   string `mapstructure:"summary_model"`
	AnalysisModel  string `mapstructure:"analysis_model"`
	ChatModel      string `mapstructure:"chat_model"`
	ThinkingBudget int    `mapstructure:"thinking_budget"`
	QuizMaxTokens  int    `mapstructure:"quiz_max_tokens"`
}

type StoreConfig struct {
	DBPath    string      `mapstructure:"db_path"`
	KVBackend string      `mapstructure:"kv_backend"`
	Redis     RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_attempts", 1)
	v.SetDefault("llm.timeout", time.Duration(0))

	v.SetDefault("gateway.quiz_model", "")
	v.SetDefault("gateway.summary_model", "")
	v.SetDefault("gateway.analysis_model", "")
	v.SetDefault("gateway.chat_model", "")
	v.SetDefault("gateway.thinking_budget", 20000)
	v.SetDefault("gateway.quiz_max_tokens", 16384)

	v.SetDefault("store.db_path", "")
	v.SetDefault("store.kv_backend", "sqlite")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "chemmaster:")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.session_ttl", 2*time.Hour)
}

// Load reads configuration. path names a YAML file; when empty the file
// is looked up as $XDG_CONFIG_HOME/chemmaster/config.yaml and may be
// absent. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("CHEMMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "chemmaster"), nil
}

// LLMProvider resolves the provider configuration. Keys come from the
// llm package's environment conventions; when no provider is named the
// first provider with a key wins. Settings in c override both.
func (c *Config) LLMProvider() llm.Config {
	cfg := llm.ConfigFromEnv()
	if c.LLM.Provider == "" && os.Getenv("CHEMMASTER_LLM_PROVIDER") == "" && !cfg.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg = found
		}
	}

	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	}
	switch cfg.Provider {
	case "gemini":
		override(&cfg.Gemini.APIKey, c.LLM.APIKey)
		override(&cfg.Gemini.Model, c.LLM.Model)
	case "openai":
		override(&cfg.OpenAI.APIKey, c.LLM.APIKey)
		override(&cfg.OpenAI.Model, c.LLM.Model)
		override(&cfg.OpenAI.BaseURL, c.LLM.BaseURL)
	case "anthropic":
		override(&cfg.Anthropic.APIKey, c.LLM.APIKey)
		override(&cfg.Anthropic.Model, c.LLM.Model)
	case "openrouter":
		override(&cfg.OpenRouter.APIKey, c.LLM.APIKey)
		override(&cfg.OpenRouter.Model, c.LLM.Model)
		override(&cfg.OpenRouter.BaseURL, c.LLM.BaseURL)
	}

	if c.LLM.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	}
	cfg.Timeout = c.LLM.Timeout
	return cfg
}

// GatewayConfig returns the gateway settings for the given provider.
func (c *Config) GatewayConfig(provider string) gateway.Config {
	g := gateway.DefaultConfig(provider)
	override(&g.QuizModel, c.Gateway.QuizModel)
	override(&g.SummaryModel, c.Gateway.SummaryModel)
	override(&g.AnalysisModel, c.Gateway.AnalysisModel)
	override(&g.ChatModel, c.Gateway.ChatModel)
	if c.Gateway.ThinkingBudget > 0 {
		g.AnalysisThinkingBudget = c.Gateway.ThinkingBudget
	}
	if c.Gateway.QuizMaxTokens > 0 {
		g.QuizMaxTokens = c.Gateway.QuizMaxTokens
	}
	g.Timeout = c.LLM.Timeout
	return g
}

// Logging returns the logger settings. An unset file resolves to
// logs/chemmaster.log under the data directory.
func (c *Config) Logging(console bool) logging.Config {
	file := c.Log.File
	if file == "" {
		if dir, err := store.DataDir(); err == nil {
			file = filepath.Join(dir, "logs", "chemmaster.log")
		}
	}
	return logging.Config{
		File:       file,
		Level:      c.Log.Level,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Console:    console,
	}
}

// RedisKV returns the Redis settings for the KV store.
func (c *Config) RedisKV() store.RedisConfig {
	r := c.Store.Redis
	return store.RedisConfig{Addr: r.Addr, Password: r.Password, DB: r.DB, Prefix: r.Prefix}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
