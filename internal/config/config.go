package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultScorerURL is the hosted BERT classifier that returns {"score": n}.
	DefaultScorerURL = "https://abhinavdread-prompt-analyzer.hf.space/score"

	// DefaultJudgeBaseURL is the OpenAI-compatible Hugging Face inference router.
	DefaultJudgeBaseURL = "https://router.huggingface.co/v1"

	DefaultJudgeModel  = "mistralai/Mistral-7B-Instruct-v0.2"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Judge providers
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderMock        = "mock"
)

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port           string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// ScorerConfig configures the remote quality classifier
type ScorerConfig struct {
	URL       string `json:"url"`
	TimeoutMS int    `json:"timeoutMs"`
}

// Timeout returns the per-call timeout
func (c ScorerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// JudgeConfig configures the remote LLM judgment engine
type JudgeConfig struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	BaseURL      string  `json:"baseUrl"`
	HFToken      string  `json:"-"` // Never serialize
	GeminiAPIKey string  `json:"-"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens"`
	TimeoutMS    int     `json:"timeoutMs"`
}

// Timeout returns the per-call timeout
func (c JudgeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// HasCredentials reports whether the selected provider has an API credential
func (c JudgeConfig) HasCredentials() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	case ProviderMock:
		return true
	default:
		return c.HFToken != ""
	}
}

// AuthConfig configures optional bearer-token protection of the analyze endpoints
type AuthConfig struct {
	JWTSecret string `json:"-"`
	Username  string `json:"username"`
	Password  string `json:"-"`
}

// Enabled returns true when a signing secret is configured
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// Config is built once at startup and never mutated afterwards
type Config struct {
	Server        ServerConfig
	Scorer        ScorerConfig
	Judge         JudgeConfig
	Auth          AuthConfig
	LogLevel      string
	LanguageCheck bool
}

// Load reads an optional .env file and then the process environment
func Load() *Config {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() *Config {
	provider := strings.ToLower(getEnvOrDefault("JUDGE_PROVIDER", ProviderHuggingFace))
	defaultModel := DefaultJudgeModel
	if provider == ProviderGemini {
		defaultModel = DefaultGeminiModel
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			AllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnvOrDefault("CORS_ALLOWED_METHODS", "GET, POST, OPTIONS"),
			AllowedHeaders: getEnvOrDefault("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
		},
		Scorer: ScorerConfig{
			URL:       getEnvOrDefault("SCORER_URL", DefaultScorerURL),
			TimeoutMS: getEnvInt("SCORER_TIMEOUT_MS", 10000),
		},
		Judge: JudgeConfig{
			Provider:     provider,
			Model:        getEnvOrDefault("JUDGE_MODEL", defaultModel),
			BaseURL:      getEnvOrDefault("JUDGE_BASE_URL", DefaultJudgeBaseURL),
			HFToken:      os.Getenv("HF_TOKEN"),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			Temperature:  getEnvFloat("JUDGE_TEMPERATURE", 0.1), // low temperature keeps ratings stable
			MaxTokens:    getEnvInt("JUDGE_MAX_TOKENS", 512),
			TimeoutMS:    getEnvInt("JUDGE_TIMEOUT_MS", 60000),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			Username:  os.Getenv("AUTH_USERNAME"),
			Password:  os.Getenv("AUTH_PASSWORD"),
		},
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LanguageCheck: getEnvBool("LANGUAGE_CHECK", true),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
