package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	StorageDriver      string
	UploadDir          string
	UploadBaseURL      string
	CloudinaryCloud    string
	CloudinaryKey      string
	CloudinarySecret   string
	CloudinaryFolder   string
	AIBaseURL          string
	AIAPIKey           string
	AIModel            string
	AITimeout          time.Duration
	TranscriptCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EMS API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("upload.dir", "uploads/assignments")
	v.SetDefault("upload.base_url", "/uploads/assignments")
	v.SetDefault("cloudinary.folder", "ems/submissions")
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("transcript.cache_ttl", "2m")

	aiTimeout, err := time.ParseDuration(v.GetString("ai.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("transcript.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid transcript cache ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		StorageDriver:      strings.ToLower(v.GetString("storage.driver")),
		UploadDir:          v.GetString("upload.dir"),
		UploadBaseURL:      v.GetString("upload.base_url"),
		CloudinaryCloud:    v.GetString("cloudinary.cloud_name"),
		CloudinaryKey:      v.GetString("cloudinary.api_key"),
		CloudinarySecret:   v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:   v.GetString("cloudinary.folder"),
		AIBaseURL:          v.GetString("ai.base_url"),
		AIAPIKey:           v.GetString("ai.api_key"),
		AIModel:            v.GetString("ai.model"),
		AITimeout:          aiTimeout,
		TranscriptCacheTTL: cacheTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 30 * time.Second
	}

	return cfg, nil
}
