package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config for both entry points (file + env overrides).
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Gemini struct {
		APIKey         string `mapstructure:"api_key"`
		BaseURL        string `mapstructure:"base_url"`
		APIVersion     string `mapstructure:"api_version"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"gemini"`

	Telegram struct {
		Token string `mapstructure:"token"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"telegram"`

	HTTP struct {
		PreferIPv4     bool `mapstructure:"prefer_ipv4"`
		TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	} `mapstructure:"http"`

	Studio struct {
		MaxConcurrent         int `mapstructure:"max_concurrent"`
		MaxHistoryMessages    int `mapstructure:"max_history_messages"`
		RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
	} `mapstructure:"studio"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("adstudio")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional; env can fully configure

	v.SetEnvPrefix("ADSTUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.api_version", "v1beta")
	v.SetDefault("gemini.timeout_seconds", 180)
	v.SetDefault("http.prefer_ipv4", true)
	v.SetDefault("http.timeout_seconds", 180)
	v.SetDefault("studio.max_concurrent", 4)
	v.SetDefault("studio.max_history_messages", 20)
	v.SetDefault("studio.request_timeout_seconds", 180)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	clamp(&cfg)
	return cfg, nil
}

func clamp(c *Config) {
	if c.Studio.MaxConcurrent < 1 {
		c.Studio.MaxConcurrent = 1
	}
	if c.Studio.MaxHistoryMessages < 1 {
		c.Studio.MaxHistoryMessages = 1
	}
	if c.Studio.RequestTimeoutSeconds <= 0 {
		c.Studio.RequestTimeoutSeconds = 180
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = 180
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = 180
	}
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Studio.RequestTimeoutSeconds) * time.Second
}
