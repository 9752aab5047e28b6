package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration, populated from environment
// variables with sane defaults.
type Config struct {
	Port         string        `mapstructure:"PORT"`
	Env          string        `mapstructure:"ENV"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	RedisURL     string        `mapstructure:"REDIS_URL"`
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	SolveTimeout time.Duration `mapstructure:"SOLVE_TIMEOUT"`
	CacheTTL     time.Duration `mapstructure:"CACHE_TTL"`
	CorsOrigins  []string      `mapstructure:"CORS_ORIGINS"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8082")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SOLVE_TIMEOUT", 30*time.Second)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("CORS_ORIGINS", []string{"*"})
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in a development
// environment.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev" || env == "local"
}
