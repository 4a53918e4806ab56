package config

import (
	"net"
	"strconv"
	"time"

	"keyword-scout/pkg/llm"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/naver"
	"keyword-scout/pkg/scoring"
	"keyword-scout/pkg/storage"
)

type Config struct {
	Server  ServerConfig   `mapstructure:"server"`
	Naver   naver.Config   `mapstructure:"naver"`
	LLM     llm.Config     `mapstructure:"llm"`
	Cache   storage.Config `mapstructure:"cache"`
	Scoring scoring.Config `mapstructure:"scoring"`
	Logger  logger.Config  `mapstructure:"logger"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    string        `mapstructure:"allow_origins"`
	BodyLimit       int           `mapstructure:"body_limit"`
	StaticDir       string        `mapstructure:"static_dir"`
}

// Address is host:port for fiber's Listen.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}

// Default returns the configuration used when no file or env overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			AllowOrigins:    "*",
			BodyLimit:       1 << 20,
		},
		Naver: naver.DefaultConfig(),
		LLM:   llm.DefaultConfig(),
		Cache: storage.Config{
			Backend:    "memory",
			Prefix:     "kscout:",
			TTL:        30 * time.Minute,
			MaxEntries: 1000,
		},
		Scoring: scoring.DefaultConfig(),
		Logger: logger.Config{
			Level:      "info",
			Format:     "json",
			TimeFormat: time.RFC3339,
		},
	}
}
