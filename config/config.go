package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server         ServerConfig
	Log            LogConfig
	GHL            GHLConfig
	StealthSeminar StealthSeminarConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // zap level name: debug, info, warn, error
	Debug bool   // development encoder + debug-friendly output
}

// GHLConfig holds the Go High Level webhook destination settings.
type GHLConfig struct {
	WebhookURL     string
	APIKey         string
	WhatsAppNumber string // sender number shown in outbound WhatsApp templates
	TemplateName   string
}

// StealthSeminarConfig holds the upstream webinar provider settings.
type StealthSeminarConfig struct {
	APIKey        string
	WebhookSecret string // HMAC secret for inbound webhook signatures; empty disables verification
	BaseURL       string
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "60"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Debug: getEnvBool("DEBUG", false),
		},
		GHL: GHLConfig{
			WebhookURL:     getEnv("GHL_WEBHOOK_URL", ""),
			APIKey:         getEnv("GHL_API_KEY", ""),
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", ""),
			TemplateName:   getEnv("TEMPLATE_NAME", "upsell_m2_mes_mujer_2025"),
		},
		StealthSeminar: StealthSeminarConfig{
			APIKey:        getEnv("STEALTH_SEMINAR_API_KEY", ""),
			WebhookSecret: getEnv("STEALTH_SEMINAR_WEBHOOK_SECRET", ""),
			BaseURL:       getEnv("STEALTH_SEMINAR_BASE_URL", "https://api.stealthseminar.com/v2"),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
