// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, MongoDB connection settings, the upstream AI service location,
// auth/email/cloud credentials, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// MongoConfig defines the MongoDB connection settings. The product keeps two
// logical databases on one deployment: the main database (users,
// subscriptions) and the AI database (conversation turns, demo requests).
type MongoConfig struct {
	URI    string // MONGODB_URL
	DBName string // MONGODB_DB_NAME
	AIDB   string // MONGODB_DB_NAME_AI (falls back to DBName when empty)
}

// AgentConfig defines the upstream AI service settings.
type AgentConfig struct {
	BaseURL string        // AI_SITE, e.g. "https://ai.example.com"
	Timeout time.Duration // AI_TIMEOUT, bound on one gateway round trip
}

// AuthConfig defines JWT issuance settings.
type AuthConfig struct {
	SecretKey      string        // SECRET_KEY (HS256 signing key)
	AccessTokenTTL time.Duration // ACCESS_TOKEN_TTL
	VerifyTokenTTL time.Duration // VERIFY_TOKEN_TTL (email verification link)
	ResetTokenTTL  time.Duration // RESET_TOKEN_TTL (password reset link)
	Domain         string        // DOMAIN, base URL used in emailed links
}

// SMTPConfig defines outbound email settings.
type SMTPConfig struct {
	Host     string // SMTP_HOST
	Port     int    // SMTP_PORT
	User     string // SMTP_USER
	Password string // SMTP_PASSWORD
	From     string // EMAIL_FROM
	FromName string // EMAIL_FROM_NAME
	// DemoRecipients receives "book a demo" notifications (comma-separated).
	DemoRecipients []string
}

// GCSConfig defines Google Cloud Storage settings for static content.
type GCSConfig struct {
	Bucket          string // GCS_BUCKET_NAME
	CoordinatesPath string // GCS_FILE_PATH, path of the coordinates JSON
}

// DriveConfig defines Google Drive settings for document upload/download.
type DriveConfig struct {
	CredentialsFile string // DRIVE_CREDENTIALS_FILE, service-account JSON
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool
	APIBasePath string // base path for API routes, e.g. "/api/v2"

	// Persistence
	Mongo  MongoConfig
	DBPath string // SQLite path for the idempotency store

	// Collaborators
	Agent AgentConfig
	Auth  AuthConfig
	SMTP  SMTPConfig
	GCS   GCSConfig
	Drive DriveConfig

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v2")),

		// Persistence
		Mongo: MongoConfig{
			URI:    getenv("MONGODB_URL", "mongodb://localhost:27017"),
			DBName: getenv("MONGODB_DB_NAME", "morseverse"),
			AIDB:   getenv("MONGODB_DB_NAME_AI", ""),
		},
		DBPath: getenv("DB_PATH", "idempotency.db"),

		// Collaborators
		Agent: AgentConfig{
			BaseURL: strings.TrimRight(getenv("AI_SITE", ""), "/"),
			Timeout: getdur("AI_TIMEOUT", 90*time.Second),
		},
		Auth: AuthConfig{
			SecretKey:      getenv("SECRET_KEY", ""),
			AccessTokenTTL: getdur("ACCESS_TOKEN_TTL", 2*time.Hour),
			VerifyTokenTTL: getdur("VERIFY_TOKEN_TTL", 24*time.Hour),
			ResetTokenTTL:  getdur("RESET_TOKEN_TTL", time.Hour),
			Domain:         strings.TrimRight(getenv("DOMAIN", "http://127.0.0.1:8080"), "/"),
		},
		SMTP: SMTPConfig{
			Host:           getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:           getint("SMTP_PORT", 587),
			User:           getenv("SMTP_USER", ""),
			Password:       getenv("SMTP_PASSWORD", ""),
			From:           getenv("EMAIL_FROM", "noreply@morseverse.com"),
			FromName:       getenv("EMAIL_FROM_NAME", "MorseVerse"),
			DemoRecipients: splitCSV(getenv("DEMO_RECIPIENTS", "")),
		},
		GCS: GCSConfig{
			Bucket:          getenv("GCS_BUCKET_NAME", ""),
			CoordinatesPath: getenv("GCS_FILE_PATH", "coordinates/coordinates.json"),
		},
		Drive: DriveConfig{
			CredentialsFile: getenv("DRIVE_CREDENTIALS_FILE", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "morseverse-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Mongo.AIDB == "" {
		cfg.Mongo.AIDB = cfg.Mongo.DBName
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		return cfg, errors.New("MONGODB_URL must not be empty")
	}
	if strings.TrimSpace(cfg.Mongo.DBName) == "" {
		return cfg, errors.New("MONGODB_DB_NAME must not be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.Agent.Timeout <= 0 {
		return cfg, errors.New("AI_TIMEOUT must be > 0")
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.VerifyTokenTTL <= 0 || cfg.Auth.ResetTokenTTL <= 0 {
		return cfg, errors.New("token TTLs must be positive durations")
	}
	if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		return cfg, errors.New("SMTP_PORT must be a valid TCP port")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
