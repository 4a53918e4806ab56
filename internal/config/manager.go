package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"keyword-scout/pkg/llm"
)

// EnvPrefix prefixes every config key read from the environment, e.g.
// KSCOUT_CACHE_BACKEND for cache.backend.
const EnvPrefix = "KSCOUT"

// vendorEnv maps config keys to the plain variable names the vendor keys are
// usually exported under. The prefixed name still wins when both are set.
var vendorEnv = map[string][]string{
	"server.port":          {"PORT"},
	"naver.client_id":      {"NAVER_CLIENT_ID"},
	"naver.client_secret":  {"NAVER_CLIENT_SECRET"},
	"naver.api_key":        {"NAVER_AD_API_KEY"},
	"naver.secret_key":     {"NAVER_AD_SECRET_KEY"},
	"naver.customer_id":    {"NAVER_AD_CUSTOMER_ID"},
	"llm.openai.api_key":   {"OPENAI_API_KEY"},
	"llm.gemini.api_key":   {"GEMINI_API_KEY"},
	"llm.research.api_key": {"PERPLEXITY_API_KEY", "Perplexity_API_KEY"},
	"cache.redis_url":      {"REDIS_URL"},
	"logger.level":         {"LOG_LEVEL"},
}

type manager struct {
	mu      sync.RWMutex
	config  *Config
	viper   *viper.Viper
	envFile string
}

// NewManager returns a Manager that reads envFile (if it exists) into the
// process environment before loading.
func NewManager(envFile string) Manager {
	return &manager{
		viper:   viper.New(),
		envFile: envFile,
	}
}

// Load is a one-shot helper around NewManager(".env").Load.
func Load(configPath string) (*Config, error) {
	return NewManager(".env").Load(configPath)
}

// Load reads defaults, the optional YAML file at configPath and the
// environment, in increasing priority.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadEnvFile(); err != nil {
		return nil, err
	}

	if err := m.setupViper(configPath); err != nil {
		return nil, fmt.Errorf("failed to setup viper: %w", err)
	}

	if configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return nil, err
	}
	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if m.viper.ConfigFileUsed() != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) loadEnvFile() error {
	if m.envFile == "" {
		return nil
	}
	if err := godotenv.Load(m.envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", m.envFile, err)
	}
	return nil
}

func (m *manager) setupViper(configPath string) error {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file %s: %w", configPath, err)
		}
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	setDefaults(m.viper, Default())

	for key, names := range vendorEnv {
		envNames := append([]string{envName(key)}, names...)
		if err := m.viper.BindEnv(append([]string{key}, envNames...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

func (m *manager) decode() (*Config, error) {
	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.allow_origins", d.Server.AllowOrigins)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("server.static_dir", d.Server.StaticDir)

	v.SetDefault("naver.client_id", d.Naver.ClientID)
	v.SetDefault("naver.client_secret", d.Naver.ClientSecret)
	v.SetDefault("naver.openapi_url", d.Naver.OpenAPIURL)
	v.SetDefault("naver.api_key", d.Naver.AdAPIKey)
	v.SetDefault("naver.secret_key", d.Naver.AdSecretKey)
	v.SetDefault("naver.customer_id", d.Naver.AdCustomerID)
	v.SetDefault("naver.searchad_url", d.Naver.SearchAdURL)
	v.SetDefault("naver.timeout", d.Naver.Timeout)
	v.SetDefault("naver.max_retries", d.Naver.MaxRetries)
	v.SetDefault("naver.retry_delay", d.Naver.RetryDelay)

	setProviderDefaults(v, "openai", d.LLM.OpenAI)
	setProviderDefaults(v, "gemini", d.LLM.Gemini)
	setProviderDefaults(v, "research", d.LLM.Research)
	v.SetDefault("llm.requests_per_minute", d.LLM.RequestsPerMinute)
	v.SetDefault("llm.burst", d.LLM.Burst)
	v.SetDefault("llm.max_retries", d.LLM.MaxRetries)
	v.SetDefault("llm.retry_delay", d.LLM.RetryDelay)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", d.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.prefix", d.Cache.Prefix)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)

	v.SetDefault("scoring.weights.trend_weighted", d.Scoring.Weights.TrendWeighted)
	v.SetDefault("scoring.weights.volume_ratio", d.Scoring.Weights.VolumeRatio)
	v.SetDefault("scoring.weights.lifecycle_maturity", d.Scoring.Weights.LifecycleMaturity)
	v.SetDefault("scoring.weights.recency_sampling", d.Scoring.Weights.RecencySampling)
	v.SetDefault("scoring.fallback_months", d.Scoring.FallbackMonths)
	v.SetDefault("scoring.volume_ratio", d.Scoring.VolumeRatio)
	v.SetDefault("scoring.min_lifecycle_months", d.Scoring.MinLifecycleMonths)
	v.SetDefault("scoring.max_lifecycle_months", d.Scoring.MaxLifecycleMonths)

	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.output", d.Logger.Output)
	v.SetDefault("logger.time_format", d.Logger.TimeFormat)
}

func setProviderDefaults(v *viper.Viper, name string, p llm.ProviderConfig) {
	prefix := "llm." + name + "."
	v.SetDefault(prefix+"api_key", p.APIKey)
	v.SetDefault(prefix+"base_url", p.BaseURL)
	v.SetDefault(prefix+"model", p.Model)
	v.SetDefault(prefix+"timeout", p.Timeout)
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}

	if config.LLM.RequestsPerMinute <= 0 {
		return fmt.Errorf("llm.requests_per_minute must be positive")
	}

	if config.Naver.Timeout <= 0 {
		return fmt.Errorf("naver.timeout must be positive")
	}

	if err := config.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	return nil
}
