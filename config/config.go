package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Провайдеры моделей
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderDemo   = "demo"
)

// HTTPDisabled значение HTTP_ADDR, отключающее HTTP API.
const HTTPDisabled = "off"

type Config struct {
	TelegramToken string
	HTTPAddr      string

	AIProvider        string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIVisionModel string
	OpenAIReportModel string
	GeminiAPIKey      string
	GeminiModel       string

	RulesLocale string
	RulesFile   string

	WorkspaceDir string
	WorkspaceTTL time.Duration

	ProviderTimeout      time.Duration
	ProviderRetries      int
	ProviderBackoff      time.Duration
	ProviderRateInterval time.Duration
	CacheTTL             time.Duration

	ChartDPI      int
	PDFFontFile   string
	MaxImageBytes int
	MinImageSide  int
}

// TelegramEnabled сообщает, нужно ли запускать бота.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// HTTPEnabled сообщает, нужно ли запускать HTTP API.
func (c *Config) HTTPEnabled() bool {
	return c.HTTPAddr != "" && c.HTTPAddr != HTTPDisabled
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	r := &envReader{}
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      r.str("HTTP_ADDR", ":8080"),

		AIProvider:        strings.ToLower(os.Getenv("AI_PROVIDER")),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		OpenAIVisionModel: r.str("OPENAI_VISION_MODEL", "gpt-4o"),
		OpenAIReportModel: r.str("OPENAI_REPORT_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       r.str("GEMINI_MODEL", "gemini-1.5-flash"),

		RulesLocale: r.str("RULES_LOCALE", "en"),
		RulesFile:   os.Getenv("RULES_FILE"),

		WorkspaceDir: r.str("WORKSPACE_DIR", filepath.Join(os.TempDir(), "face-assess-bot")),
		WorkspaceTTL: r.duration("WORKSPACE_TTL", time.Hour),

		ProviderTimeout:      r.duration("PROVIDER_TIMEOUT", 30*time.Second),
		ProviderRetries:      r.integer("PROVIDER_RETRIES", 3),
		ProviderBackoff:      r.duration("PROVIDER_BACKOFF", 2*time.Second),
		ProviderRateInterval: r.duration("PROVIDER_RATE_INTERVAL", time.Second),
		CacheTTL:             r.duration("CACHE_TTL", 30*time.Minute),

		ChartDPI:      r.integer("CHART_DPI", 300),
		PDFFontFile:   os.Getenv("PDF_FONT_FILE"),
		MaxImageBytes: r.integer("MAX_IMAGE_BYTES", 20<<20),
		MinImageSide:  r.integer("MIN_IMAGE_SIDE", 256),
	}
	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}

	if cfg.AIProvider == "" {
		cfg.AIProvider = defaultProvider(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.AIProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for AI_PROVIDER=openai")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for AI_PROVIDER=gemini")
		}
	case ProviderDemo:
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}

	if !c.TelegramEnabled() && !c.HTTPEnabled() {
		return errors.New("TELEGRAM_TOKEN or HTTP_ADDR is required")
	}
	if c.ProviderRetries < 1 {
		return errors.New("PROVIDER_RETRIES must be at least 1")
	}
	if c.ChartDPI < 50 || c.ChartDPI > 600 {
		return fmt.Errorf("CHART_DPI must be in [50, 600], got %d", c.ChartDPI)
	}
	if c.WorkspaceTTL < time.Second {
		return fmt.Errorf("WORKSPACE_TTL must be at least 1s, got %s", c.WorkspaceTTL)
	}
	if c.MaxImageBytes <= 0 || c.MinImageSide <= 0 {
		return errors.New("MAX_IMAGE_BYTES and MIN_IMAGE_SIDE must be positive")
	}
	return nil
}

func defaultProvider(c *Config) string {
	switch {
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.GeminiAPIKey != "":
		return ProviderGemini
	default:
		return ProviderDemo
	}
}

// envReader читает типизированные переменные и копит ошибки разбора.
type envReader struct {
	errs []error
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (r *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}
