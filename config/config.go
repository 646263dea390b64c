package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Значения по умолчанию
const (
	DefaultProvider      = "anthropic"
	DefaultEncoding      = "utf-8"
	DefaultLogLevel      = "info"
	DefaultLogFile       = "mcp_server.log"
	DefaultTesseractCmd  = "tesseract"
	DefaultMaxTokens     = 1024
	DefaultVisionTimeout = 60 * time.Second

	DefaultAnthropicModel   = "claude-3-5-sonnet-latest"
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultOpenAIModel      = "gpt-4o"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
)

// Config конфигурация процесса. Читается один раз при старте и дальше не меняется.
type Config struct {
	VisionProvider   string
	FallbackProvider string

	EnableOCR     bool
	TesseractCmd  string
	TesseractLang string

	OutputEncoding string

	LogLevel string
	LogFile  string

	Anthropic ProviderConfig
	OpenAI    ProviderConfig

	TelegramToken string
	MetricsAddr   string

	OTLPEndpoint string
	OTLPInsecure bool
}

// ProviderConfig настройки одного облачного провайдера
type ProviderConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// Load читает .env (если есть) и переменные окружения.
func Load(envFiles ...string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	timeout := v.GetDuration("VISION_TIMEOUT")
	if timeout <= 0 {
		timeout = DefaultVisionTimeout
	}
	maxTokens := v.GetInt("VISION_MAX_TOKENS")
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	cfg := &Config{
		VisionProvider:   normalize(v.GetString("VISION_PROVIDER")),
		FallbackProvider: normalize(v.GetString("FALLBACK_PROVIDER")),
		EnableOCR:        strings.EqualFold(strings.TrimSpace(v.GetString("ENABLE_OCR")), "true"),
		TesseractCmd:     strings.TrimSpace(v.GetString("TESSERACT_CMD")),
		TesseractLang:    strings.TrimSpace(v.GetString("TESSERACT_LANG")),
		OutputEncoding:   strings.TrimSpace(v.GetString("MCP_OUTPUT_ENCODING")),
		LogLevel:         normalize(v.GetString("LOG_LEVEL")),
		LogFile:          strings.TrimSpace(v.GetString("LOG_FILE")),
		Anthropic: ProviderConfig{
			APIKey:    strings.TrimSpace(v.GetString("ANTHROPIC_API_KEY")),
			Model:     v.GetString("ANTHROPIC_MODEL"),
			BaseURL:   strings.TrimRight(v.GetString("ANTHROPIC_BASE_URL"), "/"),
			MaxTokens: maxTokens,
			Timeout:   timeout,
		},
		OpenAI: ProviderConfig{
			APIKey:    strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
			Model:     v.GetString("OPENAI_MODEL"),
			BaseURL:   strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
			MaxTokens: maxTokens,
			Timeout:   timeout,
		},
		TelegramToken: strings.TrimSpace(v.GetString("TELEGRAM_TOKEN")),
		MetricsAddr:   strings.TrimSpace(v.GetString("METRICS_ADDR")),
		OTLPEndpoint:  strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:  v.GetBool("OTEL_INSECURE"),
	}

	if cfg.VisionProvider == "" {
		cfg.VisionProvider = DefaultProvider
	}
	if cfg.OutputEncoding == "" {
		cfg.OutputEncoding = DefaultEncoding
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}
	if cfg.TesseractCmd == "" {
		cfg.TesseractCmd = DefaultTesseractCmd
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("VISION_PROVIDER", DefaultProvider)
	v.SetDefault("ENABLE_OCR", "false")
	v.SetDefault("TESSERACT_CMD", DefaultTesseractCmd)
	v.SetDefault("MCP_OUTPUT_ENCODING", DefaultEncoding)
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("LOG_FILE", DefaultLogFile)
	v.SetDefault("ANTHROPIC_MODEL", DefaultAnthropicModel)
	v.SetDefault("ANTHROPIC_BASE_URL", DefaultAnthropicBaseURL)
	v.SetDefault("OPENAI_MODEL", DefaultOpenAIModel)
	v.SetDefault("OPENAI_BASE_URL", DefaultOpenAIBaseURL)
	v.SetDefault("VISION_MAX_TOKENS", DefaultMaxTokens)
	v.SetDefault("VISION_TIMEOUT", DefaultVisionTimeout)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
