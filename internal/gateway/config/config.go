package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderFake   = "fake"
)

type Config struct {
	Port    string        `yaml:"port"`
	Env     string        `yaml:"env"`
	Log     LogConfig     `yaml:"log"`
	LLM     LLMConfig     `yaml:"llm"`
	Session SessionConfig `yaml:"session"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	RPS         float64 `yaml:"rps"`
	Burst       int     `yaml:"burst"`
}

type SessionConfig struct {
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

func defaults() Config {
	return Config{
		Port: ":8081",
		Env:  "local",
		Log:  LogConfig{Level: "info"},
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			Model:       "gemini-2.5-flash",
			Temperature: 0.4,
			RPS:         1,
			Burst:       2,
		},
		Session: SessionConfig{
			MaxEntries: 1024,
			TTL:        30 * time.Minute,
		},
	}
}

// Load reads .env, then the optional YAML file at path, then environment
// overrides. Later sources win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path = strings.TrimSpace(path); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if strings.EqualFold(cfg.Env, "local") {
		applyLocal(&cfg)
	}
	cfg.Port = normalizePort(cfg.Port)
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderFake:
	default:
		return fmt.Errorf("config: unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config: llm temperature %v outside [0, 2]", c.LLM.Temperature)
	}
	if c.Session.MaxEntries <= 0 {
		return fmt.Errorf("config: session max entries must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session ttl must be positive")
	}
	return nil
}

func applyEnv(c *Config) error {
	if v := env("PORT"); v != "" {
		c.Port = v
	}
	if v := env("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := env("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := firstNonEmpty(env("GEMINI_API_KEY"), env("GOOGLE_API_KEY"), env("API_KEY")); v != "" {
		c.LLM.APIKey = v
	}
	if v := env("GEMINI_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := env("GEMINI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := env("LLM_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("config: LLM_TEMPERATURE: %w", err)
		}
		c.LLM.Temperature = float32(f)
	}
	if v := firstNonEmpty(env("LLM_RPS"), env("GEMINI_RPS")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: LLM_RPS: %w", err)
		}
		c.LLM.RPS = f
	}
	if v := firstNonEmpty(env("LLM_BURST"), env("GEMINI_BURST")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: LLM_BURST: %w", err)
		}
		c.LLM.Burst = n
	}
	if v := env("SESSION_MAX_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: SESSION_MAX_ENTRIES: %w", err)
		}
		c.Session.MaxEntries = n
	}
	if v := env("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: SESSION_TTL: %w", err)
		}
		c.Session.TTL = d
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func normalizePort(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ":8081"
	}
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
