package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Redis     RedisConfig
	JWT       JWTConfig
	MinIO     MinIOConfig
	Recipe    RecipeConfig
	Export    ExportConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL trả về cho client, rỗng = endpoint
}

// RecipeConfig chứa các ngưỡng validate recipe
type RecipeConfig struct {
	MinNameLength  int
	MinTextLength  int
	MinCookingTime int
	PageSize       int
}

type ExportConfig struct {
	FileName string // tên file shopping list khi download
	FontPath string // TTF hỗ trợ Unicode, rỗng = Helvetica
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig áp dụng cho login endpoint (per client IP)
type RateLimitConfig struct {
	LoginRPS   float64
	LoginBurst int
}

type WorkerConfig struct {
	Concurrency int
	HealthPort  string
	SweepCron   string        // lịch dọn ảnh mồ côi (cron, UTC)
	SweepGrace  time.Duration // chỉ dọn thư mục cũ hơn khoảng này
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Foodgram API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "foodgram"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Recipe: RecipeConfig{
			MinNameLength:  getEnvInt("RECIPE_MIN_NAME_LENGTH", 6),
			MinTextLength:  getEnvInt("RECIPE_MIN_TEXT_LENGTH", 10),
			MinCookingTime: getEnvInt("RECIPE_MIN_COOKING_TIME", 1),
			PageSize:       getEnvInt("RECIPE_PAGE_SIZE", 6),
		},
		Export: ExportConfig{
			FileName: getEnv("SHOPPING_LIST_FILE_NAME", "shopping_list.pdf"),
			FontPath: getEnv("PDF_FONT_PATH", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		RateLimit: RateLimitConfig{
			LoginRPS:   getEnvFloat("LOGIN_RATE_LIMIT_RPS", 1),
			LoginBurst: getEnvInt("LOGIN_RATE_LIMIT_BURST", 5),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 10),
			HealthPort:  getEnv("WORKER_HEALTH_PORT", "9999"),
			SweepCron:   getEnv("IMAGE_SWEEP_CRON", "0 3 * * *"),
			SweepGrace:  getEnvDuration("IMAGE_SWEEP_GRACE", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Recipe.MinNameLength < 1 || c.Recipe.MinTextLength < 1 {
		return fmt.Errorf("recipe name/text minimum length must be positive")
	}
	if c.Recipe.MinCookingTime < 1 {
		return fmt.Errorf("RECIPE_MIN_COOKING_TIME must be >= 1")
	}
	if c.Recipe.PageSize < 1 {
		return fmt.Errorf("RECIPE_PAGE_SIZE must be >= 1")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be >= 1")
	}
	if c.Worker.SweepGrace < time.Hour {
		return fmt.Errorf("IMAGE_SWEEP_GRACE must be at least 1h")
	}
	if c.Export.FileName == "" {
		return fmt.Errorf("SHOPPING_LIST_FILE_NAME must not be empty")
	}

	// Production environment phải có JWT secret riêng
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.MinIO.SecretKey == "minioadmin" {
			return fmt.Errorf("MINIO_SECRET_KEY must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
