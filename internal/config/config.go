package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	GinMode  string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	SessionStore  string
	SessionSecret string
	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	NotifyRelay      bool
	RelayChannel     string
	WSAllowedOrigin  string
	WSSendBufferSize int

	Mail  MailConfig
	Minio MinioConfig

	OpenAIAPIKey string
}

// MailConfig configures the outbound SMTP collaborator. An empty Host
// selects the logging sender.
type MailConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	QueueSize int
}

type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Location        string
	UseSSL          bool
	PublicURL       string
}

func Load() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "taskuser"),
		DBPassword: getEnv("DB_PASSWORD", "taskpassword"),
		DBName:     getEnv("DB_NAME", "task_tracker"),
		DBPath:     getEnv("DB_PATH", "task_tracker.db"),

		SessionStore:  getEnv("SESSION_STORE", "cookie"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:       getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 5*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 24*time.Hour),

		NotifyRelay:      getEnvBool("NOTIFY_RELAY", false),
		RelayChannel:     getEnv("NOTIFY_RELAY_CHANNEL", "task-tracker:rooms"),
		WSAllowedOrigin:  getEnv("WS_ALLOWED_ORIGIN", ""),
		WSSendBufferSize: getEnvInt("WS_SEND_BUFFER", 16),

		Mail: MailConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvInt("SMTP_PORT", 587),
			User:      getEnv("SMTP_USER", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			From:      getEnv("SMTP_FROM", "Task Tracker <noreply@localhost>"),
			QueueSize: getEnvInt("MAIL_QUEUE_SIZE", 100),
		},
		Minio: MinioConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", ""),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("MINIO_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("MINIO_BUCKET", "avatars"),
			Location:        getEnv("MINIO_LOCATION", "us-east-1"),
			UseSSL:          getEnvBool("MINIO_USE_SSL", false),
			PublicURL:       getEnv("MINIO_PUBLIC_URL", ""),
		},

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

// RedisAddr returns host:port of the Redis server shared by sessions and the relay.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
