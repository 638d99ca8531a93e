package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"

	// ProviderGemini selects the Gemini backend.
	ProviderGemini = "gemini"
	// ProviderOpenAI selects the OpenAI backend.
	ProviderOpenAI = "openai"
	// ProviderAnthropic selects the Anthropic backend.
	ProviderAnthropic = "anthropic"
)

// ErrMissingConfig is wrapped by Validate when required settings are absent.
var ErrMissingConfig = errors.New("missing configuration")

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	// Security settings
	HSTSMaxAge     int      `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode        string   `envconfig:"CSP_MODE" default:"relaxed"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	StaticDir      string   `envconfig:"STATIC_DIR" default:"./public"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Row store settings
	ServiceAccountEmail string `envconfig:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	PrivateKey          string `envconfig:"GOOGLE_PRIVATE_KEY"`
	PrivateKeyAlt       string `envconfig:"GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY"`
	SheetID             string `envconfig:"GOOGLE_SHEET_ID"`
	SheetIDAlt          string `envconfig:"GOOGLE_SHEETS_ID"`

	// Generative backend settings
	LLMProvider     string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	LLMModel        string        `envconfig:"LLM_MODEL"`
	GeminiAPIKey    string        `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey    string        `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string        `envconfig:"ANTHROPIC_API_KEY"`
	CallTimeout     time.Duration `envconfig:"LLM_CALL_TIMEOUT" default:"0s"`
	TransientRetry  int           `envconfig:"LLM_TRANSIENT_RETRIES" default:"0"`

	// Generation settings
	MaxAttempts      int           `envconfig:"MAX_ATTEMPTS" default:"0"`
	GenerateDeadline time.Duration `envconfig:"GENERATE_DEADLINE" default:"60s"`
	DefaultTelephone string        `envconfig:"DEFAULT_TELEPHONE" default:"1522-6585"`
	RecruitmentTag   string        `envconfig:"RECRUITMENT_TAG" default:"요양보호사"`
	RulesFile        string        `envconfig:"RULES_FILE"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	// Parse environment variables into config struct
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}

// ServiceAccountKey returns the PEM private key with escaped newlines expanded.
func (c *Config) ServiceAccountKey() string {
	key := c.PrivateKeyAlt
	if key == "" {
		key = c.PrivateKey
	}

	return strings.ReplaceAll(key, `\n`, "\n")
}

// SpreadsheetID returns the configured spreadsheet id, honoring the legacy name.
func (c *Config) SpreadsheetID() string {
	if c.SheetID != "" {
		return c.SheetID
	}

	return c.SheetIDAlt
}

// Provider returns the normalized backend provider name.
func (c *Config) Provider() string {
	p := strings.ToLower(strings.TrimSpace(c.LLMProvider))
	if p == "" {
		return ProviderGemini
	}

	return p
}

// APIKey returns the key for the selected backend provider.
func (c *Config) APIKey() string {
	switch c.Provider() {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// Validate reports every missing required setting in a single error.
func (c *Config) Validate() error {
	var missing []string
	if c.ServiceAccountEmail == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if c.ServiceAccountKey() == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if c.SpreadsheetID() == "" {
		missing = append(missing, "GOOGLE_SHEET_ID")
	}

	switch c.Provider() {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		if c.APIKey() == "" {
			missing = append(missing, strings.ToUpper(c.Provider())+"_API_KEY")
		}
	default:
		return fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrMissingConfig, c.LLMProvider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	return c.validateOrigins()
}

// validateOrigins rejects CORS origins without a scheme. Wildcard entries
// are left to the CORS layer.
func (c *Config) validateOrigins() error {
	for _, o := range c.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o == "" || strings.Contains(o, "*") {
			continue
		}
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("%w: ALLOWED_ORIGINS entry %q must start with http:// or https://", ErrMissingConfig, o)
		}
	}

	return nil
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:"
}
