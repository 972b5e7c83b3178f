package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	// Clinic identity used in patient-facing copy.
	ClinicName     string
	DoctorName     string
	ClinicPhone    string
	ClinicLocation string
	OPDHours       string

	// Gemini structured generation.
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	// SendGrid email.
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	AdminEmail        string

	// Google Sheets lead sync.
	SheetsSpreadsheetID   string
	SheetsRange           string
	SheetsCredentialsJSON string

	// Outbound appointment webhooks.
	WebhookURLs    []string
	WebhookTimeout time.Duration

	// Rate limiting.
	RedisAddr           string
	RedisPassword       string
	TurnRatePerMinute   int
	SubmitRatePerMinute int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		ClinicName:     getEnv("CLINIC_NAME", "Dr. Sayuj Krishnan Neurosurgery Clinic"),
		DoctorName:     getEnv("DOCTOR_NAME", "Dr. Sayuj Krishnan"),
		ClinicPhone:    getEnv("CLINIC_PHONE", "+91-9778280044"),
		ClinicLocation: getEnv("CLINIC_LOCATION", "Yashoda Hospital, Room 317, OPD Block, Malakpet"),
		OPDHours:       getEnv("OPD_HOURS", "Mon-Sat 10:00 AM - 1:00 PM & 5:00 PM - 7:30 PM"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMTimeout:   getEnvAsDuration("LLM_TIMEOUT", 12*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Dr. Sayuj Krishnan Clinic"),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),

		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsRange:           getEnv("SHEETS_RANGE", "Leads!A:L"),
		SheetsCredentialsJSON: getEnv("SHEETS_CREDENTIALS_JSON", ""),

		WebhookURLs:    getEnvAsList("APPOINTMENT_WEBHOOK_URLS"),
		WebhookTimeout: getEnvAsDuration("APPOINTMENT_WEBHOOK_TIMEOUT", 10*time.Second),

		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		TurnRatePerMinute:   getEnvAsInt("TURN_RATE_PER_MINUTE", 20),
		SubmitRatePerMinute: getEnvAsInt("SUBMIT_RATE_PER_MINUTE", 5),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}
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

// getEnvAsList parses a comma-separated environment variable.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
