package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. It is loaded once at startup and
// handed read-only to every component.
type Config struct {
	Log      LogConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Render   RenderConfig
	Branding BrandingConfig
	Pipeline PipelineConfig
}

// LogConfig holds logger-related configuration
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// OCRConfig holds text acquisition configuration
type OCRConfig struct {
	Backend      string // native | exec
	Lang         string
	DPI          int
	MinPageChars int
	MaxPages     int
	TessdataDir  string
	Pdftoppm     string
	Tesseract    string
}

// LLMConfig holds oracle configuration
type LLMConfig struct {
	Provider       string // openai | ollama
	Model          string
	APIKey         string
	BaseURL        string
	Temperature    float32
	Timeout        time.Duration
	MaxPromptChars int
	OllamaURL      string
	OllamaModel    string
}

// RenderConfig holds PDF rendering configuration
type RenderConfig struct {
	Renderer     string // HTML-to-PDF binary, e.g. weasyprint or wkhtmltopdf
	TemplatePath string // empty = embedded template
	Timeout      time.Duration
}

// BrandingConfig is the static branding merged into every voucher.
type BrandingConfig struct {
	CompanyName string
	LogoPath    string
	Email       string
	Phone       string
	Website     string
	Address     string
	Footer      string
}

// PipelineConfig holds normalization and policy knobs
type PipelineConfig struct {
	DayFirst       bool          // numeric dates are DD/MM/YYYY
	RequestTimeout time.Duration // whole-request budget in batch mode
	Workers        int
}

// LoadDotEnv loads .env files into the process environment. Missing files are ignored;
// variables already set win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		OCR: OCRConfig{
			Backend:      strings.ToLower(getEnv("OCR_BACKEND", "native")),
			Lang:         getEnv("OCR_LANG", "eng"),
			DPI:          getEnvAsInt("OCR_DPI", 300),
			MinPageChars: getEnvAsInt("OCR_MIN_PAGE_CHARS", 40),
			MaxPages:     getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir:  getEnv("TESSDATA_PREFIX", ""),
			Pdftoppm:     getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:    getEnv("TESSERACT_BIN", "tesseract"),
		},
		LLM: LLMConfig{
			Provider:       strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:    getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:        getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxPromptChars: getEnvAsInt("LLM_MAX_PROMPT_CHARS", 12000),
			OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:    getEnv("OLLAMA_MODEL", "llama3:instruct"),
		},
		Render: RenderConfig{
			Renderer:     getEnv("PDF_RENDERER", "weasyprint"),
			TemplatePath: getEnv("TEMPLATE_PATH", ""),
			Timeout:      getEnvAsDuration("RENDER_TIMEOUT", 60*time.Second),
		},
		Branding: BrandingConfig{
			CompanyName: getEnv("BRAND_COMPANY_NAME", "CR Holidays"),
			LogoPath:    getEnv("BRAND_LOGO_PATH", "logo.png"),
			Email:       getEnv("BRAND_EMAIL", "jay@crholidays.com"),
			Phone:       getEnv("BRAND_PHONE", ""),
			Website:     getEnv("BRAND_WEBSITE", ""),
			Address:     getEnv("BRAND_ADDRESS", ""),
			Footer:      getEnv("BRAND_FOOTER", ""),
		},
		Pipeline: PipelineConfig{
			DayFirst:       getEnvAsBool("DATE_DAY_FIRST", false),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 3*time.Minute),
			Workers:        getEnvAsInt("BATCH_WORKERS", 4),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. Branding is validated separately when
// it is loaded, since only rendering needs it.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return NewAppError(CodeConfig, "OPENAI_API_KEY is required", ErrInvalidInput)
		}
	case "ollama":
		if c.LLM.OllamaURL == "" {
			return NewAppError(CodeConfig, "OLLAMA_URL is required", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfig, "LLM_PROVIDER must be openai or ollama", ErrInvalidInput)
	}
	if c.LLM.Timeout <= 0 {
		return NewAppError(CodeConfig, "OPENAI_TIMEOUT must be positive", ErrInvalidInput)
	}
	switch c.OCR.Backend {
	case "native", "exec":
	default:
		return NewAppError(CodeConfig, "OCR_BACKEND must be native or exec", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError(CodeConfig, "OCR_DPI must be positive", ErrInvalidInput)
	}
	return nil
}
