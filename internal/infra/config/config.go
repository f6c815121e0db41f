package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Bill     BillConfig     `yaml:"bill"`
	Coach    CoachConfig    `yaml:"coach"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Profile  ProfileConfig  `yaml:"profile"`
	Leads    LeadsConfig    `yaml:"leads"`
	Geo      GeoConfig      `yaml:"geo"`
	Auth     AuthConfig     `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains Gemini API settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// AnalysisConfig tunes the recommendation engine prompt.
type AnalysisConfig struct {
	SolarYieldKWhPerKW float64 `yaml:"solarYieldKWhPerKW"`
	StrictConsumption  bool    `yaml:"strictConsumption"`
}

// BillConfig controls the bill analyzer adapter.
type BillConfig struct {
	MaxUploadBytes int64 `yaml:"maxUploadBytes"`
}

// CoachConfig controls the Energy Coach chat assistant.
type CoachConfig struct {
	Prompt      string  `yaml:"prompt"`
	Temperature float32 `yaml:"temperature"`
}

// WebhookConfig points the delivery notifier at an automation endpoint.
type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ProfileConfig controls the saved-profile device store.
type ProfileConfig struct {
	StorageKey string      `yaml:"storageKey"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig contains connection information for a Valkey store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LeadsConfig controls lead persistence for the provider dashboard.
type LeadsConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// GeoConfig points the geolocation adapter at its upstream.
type GeoConfig struct {
	APIBaseURL string `yaml:"apiBaseUrl"`
}

// AuthConfig drives the role-shell token service.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("GEMINI_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("ANALYSIS_SOLAR_YIELD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.SolarYieldKWhPerKW = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_STRICT_CONSUMPTION"); v != "" {
		cfg.Analysis.StrictConsumption = isTruthy(v)
	}
	if v := os.Getenv("COACH_PROMPT"); v != "" {
		cfg.Coach.Prompt = v
	}
	if v := os.Getenv("N8N_WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("PROFILE_STORAGE_KEY"); v != "" {
		cfg.Profile.StorageKey = v
	}
	if v := os.Getenv("PROFILE_REDIS_ENABLED"); v != "" {
		cfg.Profile.Redis.Enabled = isTruthy(v)
	}
	if v := os.Getenv("PROFILE_REDIS_ADDR"); v != "" {
		cfg.Profile.Redis.Addr = v
	}
	if v := os.Getenv("LEADS_POSTGRES_DSN"); v != "" {
		cfg.Leads.Postgres.DSN = v
	}
	if v := os.Getenv("LEADS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Leads.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("GEO_API_BASE_URL"); v != "" {
		cfg.Geo.APIBaseURL = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.2,
		},
		Analysis: AnalysisConfig{
			SolarYieldKWhPerKW: 130,
			StrictConsumption:  false,
		},
		Bill: BillConfig{
			MaxUploadBytes: 8 << 20,
		},
		Coach: CoachConfig{
			Prompt: "You are the \"Energy Coach\" for the EnergyMatch platform. You assist both Small/Medium Enterprises (PyMEs) and Homeowners in Colombia. Your goal is to educate the user about renewable energy, explain technical terms (ROI, kWh, Inverters) in simple Spanish, and suggest efficiency improvements. Be friendly, professional, and concise. Always consider the local climate conditions.",
			Temperature: 0.7,
		},
		Webhook: WebhookConfig{
			URL:     "https://primary.production.n8n.cloud/webhook/energy-quote",
			Timeout: 5 * time.Second,
		},
		Profile: ProfileConfig{
			StorageKey: "energyMatch_userProfile",
			Redis: RedisConfig{
				Enabled: false,
				Addr:    "",
			},
		},
		Leads: LeadsConfig{
			Postgres: PostgresConfig{
				DSN:      "",
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Geo: GeoConfig{
			APIBaseURL: "http://ip-api.com/json",
		},
		Auth: AuthConfig{
			Secret:   "",
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Analysis.SolarYieldKWhPerKW <= 0 {
		return errors.New("analysis.solarYieldKWhPerKW must be positive")
	}
	if c.Bill.MaxUploadBytes <= 0 {
		return errors.New("bill.maxUploadBytes must be positive")
	}
	if strings.TrimSpace(c.Coach.Prompt) == "" {
		return errors.New("coach.prompt cannot be empty")
	}
	if strings.TrimSpace(c.Webhook.URL) == "" {
		return errors.New("webhook.url cannot be empty")
	}
	if strings.TrimSpace(c.Profile.StorageKey) == "" {
		return errors.New("profile.storageKey cannot be empty")
	}
	if c.Profile.Redis.Enabled && strings.TrimSpace(c.Profile.Redis.Addr) == "" {
		return errors.New("profile.redis.addr cannot be empty when the valkey store is enabled")
	}
	if strings.TrimSpace(c.Geo.APIBaseURL) == "" {
		return errors.New("geo.apiBaseUrl cannot be empty")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty, set AUTH_SECRET")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if clean := strings.TrimSpace(p); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
