package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Upload UploadConfig
	OCR    OCRConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// AuthConfig holds shared-secret auth and rate limiting configuration.
type AuthConfig struct {
	Token      string
	HeaderName string
	RateLimit  int
	RateWindow time.Duration
}

// UploadConfig holds upload handling configuration.
type UploadConfig struct {
	MaxUploadBytes int64
	CacheDir       string
}

// OCRConfig holds recognition adapter configuration. The six threshold knobs
// are forwarded to the remote recognizer; the tesseract fields drive the
// local adapter.
type OCRConfig struct {
	Backend string // "tesseract" | "remote"

	Tesseract     string
	TesseractLang string
	TessdataDir   string
	PSM           int
	OEM           int

	RemoteURL     string
	RemoteTimeout time.Duration

	BeamWidth         int
	ContrastThreshold float64
	AdjustContrast    float64
	TextThreshold     float64
	LowText           float64
	LinkThreshold     float64
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":5000"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			Token:      getEnv("AUTH_TOKEN", ""),
			HeaderName: getEnv("TOKEN_HEADER_NAME", "X-API-Token"),
			RateLimit:  getEnvAsInt("RATE_LIMIT", 10),
			RateWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		},
		Upload: UploadConfig{
			MaxUploadBytes: getEnvAsInt64("MAX_CONTENT_LENGTH", 5*1024*1024),
			CacheDir:       getEnv("CACHE_DIR", "cache"),
		},
		OCR: OCRConfig{
			Backend:       getEnv("OCR_BACKEND", "tesseract"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("OCR_PSM", 6),
			OEM:           getEnvAsInt("OCR_OEM", 0),

			RemoteURL:     getEnv("RECOGNIZER_URL", ""),
			RemoteTimeout: getEnvAsDuration("RECOGNIZER_TIMEOUT", 45*time.Second),

			BeamWidth:         getEnvAsInt("OCR_BEAM_WIDTH", 5),
			ContrastThreshold: getEnvAsFloat64("OCR_CONTRAST_THS", 0.1),
			AdjustContrast:    getEnvAsFloat64("OCR_ADJUST_CONTRAST", 0.5),
			TextThreshold:     getEnvAsFloat64("OCR_TEXT_THRESHOLD", 0.7),
			LowText:           getEnvAsFloat64("OCR_LOW_TEXT", 0.4),
			LinkThreshold:     getEnvAsFloat64("OCR_LINK_THRESHOLD", 0.4),
		},
	}
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.Auth.Token == "" {
		return NewAppError("CONFIG_ERROR", "AUTH_TOKEN is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.Backend == "remote" && c.OCR.RemoteURL == "" {
		return NewAppError("CONFIG_ERROR", "RECOGNIZER_URL is required for the remote backend", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing.
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
