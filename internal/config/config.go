package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Vision  VisionConfig
	Image   ImageConfig
	Session SessionConfig
	Export  ExportConfig
	S3      S3Config
	CORS    CORSConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	UploadMaxBytes int64
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// VisionConfig selects and configures the menu extraction model.
type VisionConfig struct {
	Provider string // "gemini" or "tesseract"
	APIKey   string
	Model    string
	Language string // tesseract language, e.g. "eng"
	Timeout  time.Duration
}

// ImageConfig configures the OpenAI-compatible image generation API.
type ImageConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
	Timeout time.Duration
}

// SessionConfig holds session registry configuration.
type SessionConfig struct {
	TTL time.Duration // zero disables eviction
}

// ExportConfig holds local export configuration.
type ExportConfig struct {
	Dir string
}

// S3Config holds S3 (or S3-compatible) configuration for exported menus.
type S3Config struct {
	Enabled   bool
	Bucket    string
	Region    string
	Prefix    string // Path prefix within bucket (e.g., "menus/")
	Endpoint  string // Custom endpoint for R2 or MinIO
	AccessKey string
	SecretKey string
}

// CORSConfig holds the allowed browser origin.
type CORSConfig struct {
	AllowedOrigin string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	modelTimeout := time.Duration(getEnvAsInt("MODEL_TIMEOUT", 120)) * time.Second

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			UploadMaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Vision: VisionConfig{
			Provider: getEnv("VISION_PROVIDER", "gemini"),
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Model:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Language: getEnv("TESSERACT_LANGUAGE", "eng"),
			Timeout:  modelTimeout,
		},
		Image: ImageConfig{
			APIKey:  getEnv("IMAGE_API_KEY", ""),
			BaseURL: getEnv("IMAGE_API_URL", "https://api.openai.com/v1"),
			Model:   getEnv("IMAGE_MODEL", "gpt-image-1"),
			Size:    getEnv("IMAGE_SIZE", "1024x1024"),
			Timeout: modelTimeout,
		},
		Session: SessionConfig{
			TTL: time.Duration(getEnvAsInt("SESSION_TTL", 3600)) * time.Second,
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "data/exports"),
		},
		S3: S3Config{
			Enabled:   getEnvAsBool("S3_ENABLED", false),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Prefix:    getEnv("S3_PREFIX", "menus/"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.UploadMaxBytes < 1 {
		return fmt.Errorf("upload max bytes must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Vision.Provider {
	case "gemini":
		if c.Vision.APIKey == "" {
			return fmt.Errorf("Gemini API key is required when the vision provider is gemini")
		}
	case "tesseract":
	default:
		return fmt.Errorf("invalid vision provider: %s (must be gemini or tesseract)", c.Vision.Provider)
	}

	if c.Vision.Timeout <= 0 {
		return fmt.Errorf("model timeout must be positive")
	}

	if c.Session.TTL < 0 {
		return fmt.Errorf("session TTL cannot be negative")
	}

	if c.Export.Dir == "" {
		return fmt.Errorf("export directory is required")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			return fmt.Errorf("S3 access key and secret key must be set together")
		}
	}

	return nil
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
