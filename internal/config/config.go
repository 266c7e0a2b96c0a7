package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/wolfman30/honeypot-agent/internal/detection"
	"github.com/wolfman30/honeypot-agent/internal/llm"
)

// placeholderSecret is the value shipped in .env.example; it must never reach production.
const placeholderSecret = "change-me-in-production"

// DefaultCallbackURL is the evaluator endpoint that receives final session reports.
const DefaultCallbackURL = "https://hackathon.guvi.in/api/updateHoneyPotFinalResult"

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	LogFormat      string
	LogFile        string
	APISecretKey   string
	AdminJWTSecret string

	CallbackURL     string
	CallbackTimeout time.Duration
	ReportQueueURL  string

	// LLM provider configuration. LLMCredentials is keyed by the credential
	// env var (e.g. GROQ_API_KEYS) and holds the raw comma-separated value.
	LLMCredentials  map[string]string
	ProviderModels  map[string]string
	LLMModel        string
	LLMBaseURL      string
	LLMTimeout      time.Duration
	OllamaBaseURL   string
	UseLocalLLMOnly bool
	BedrockModelID  string

	// Scam detection policy
	DisableScamLLMConfirm bool
	ScamKeywordsFile      string
	ScamThreshold         float64
	ScamSaturationHits    int

	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads configuration from environment variables. It is cheap and
// side-effect free, so callers may invoke it once per request to pick up
// rotated credentials without a restart.
func Load() *Config {
	credentials := make(map[string]string)
	for _, key := range llm.CredentialKeys() {
		if raw := getEnv(key, ""); raw != "" {
			credentials[key] = raw
		}
	}
	models := make(map[string]string)
	for _, p := range llm.Providers() {
		if model := strings.TrimSpace(getEnv(p.ModelOverrideKey(), "")); model != "" {
			models[string(p)] = model
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
		LogFile:        getEnv("LOG_FILE", ""),
		APISecretKey:   getEnv("API_SECRET_KEY", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CallbackURL:     getEnv("CALLBACK_URL", DefaultCallbackURL),
		CallbackTimeout: getEnvAsDuration("CALLBACK_TIMEOUT", 15*time.Second),
		ReportQueueURL:  getEnv("REPORT_QUEUE_URL", ""),

		LLMCredentials:  credentials,
		ProviderModels:  models,
		LLMModel:        strings.TrimSpace(getEnv("LLM_MODEL", "")),
		LLMBaseURL:      strings.TrimSpace(getEnv("LLM_BASE_URL", "")),
		LLMTimeout:      getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		OllamaBaseURL:   strings.TrimSpace(getEnv("OLLAMA_BASE_URL", "")),
		UseLocalLLMOnly: getEnvAsBool("USE_LOCAL_LLM_ONLY", false),
		BedrockModelID:  strings.TrimSpace(getEnv("BEDROCK_MODEL_ID", "")),

		DisableScamLLMConfirm: getEnvAsBool("DISABLE_SCAM_LLM_CONFIRM", false),
		ScamKeywordsFile:      strings.TrimSpace(getEnv("SCAM_KEYWORDS_FILE", "")),
		ScamThreshold:         getEnvAsFloat("SCAM_THRESHOLD", detection.DefaultThreshold),
		ScamSaturationHits:    getEnvAsInt("SCAM_SATURATION_HITS", detection.DefaultSaturationHits),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// Validate rejects configurations the API server must not start with.
func (c *Config) Validate() error {
	secret := strings.TrimSpace(c.APISecretKey)
	if secret == "" || secret == placeholderSecret {
		return errors.New("config: API_SECRET_KEY must be set and must not be the default placeholder")
	}
	return nil
}

// LLMSettings returns the immutable provider snapshot used for one decision.
func (c *Config) LLMSettings() llm.Settings {
	creds := make(map[string]string, len(c.LLMCredentials))
	for k, v := range c.LLMCredentials {
		creds[k] = v
	}
	models := make(map[llm.Provider]string, len(c.ProviderModels))
	for k, v := range c.ProviderModels {
		models[llm.Provider(k)] = v
	}
	return llm.Settings{
		Credentials:    creds,
		ModelOverrides: models,
		GlobalModel:    c.LLMModel,
		GlobalBaseURL:  c.LLMBaseURL,
		OllamaBaseURL:  c.OllamaBaseURL,
		LocalOnly:      c.UseLocalLLMOnly,
		BedrockModelID: c.BedrockModelID,
	}
}

// DetectionPolicy returns the scam scoring policy derived from configuration.
func (c *Config) DetectionPolicy() detection.Policy {
	return detection.Policy{
		Threshold:      c.ScamThreshold,
		SaturationHits: c.ScamSaturationHits,
		ConfirmEnabled: !c.DisableScamLLMConfirm,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, entry := range strings.Split(raw, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
