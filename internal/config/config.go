package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
	Builder  BuilderConfig
	Board    BoardConfig
	Notify   NotifyConfig
	Stripe   StripeConfig
	Pickup   PickupConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	DraftTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	OrderCreated string
	OrderStatus  string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type BuilderConfig struct {
	BasePrice     float64
	MaxImages     int
	MaxImageBytes int64
	UploadLatency time.Duration
}

type BoardConfig struct {
	PageSize int
}

type NotifyConfig struct {
	MaxVisible      int
	DefaultDuration time.Duration
}

type StripeConfig struct {
	Enabled   bool
	SecretKey string
	Currency  string
}

type PickupConfig struct {
	QRSecret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			DraftTTL: time.Duration(getEnvInt("DRAFT_TTL_MINUTES", 120)) * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				OrderCreated: getEnv("KAFKA_TOPIC_ORDER_CREATED", "bakery.orders.created"),
				OrderStatus:  getEnv("KAFKA_TOPIC_ORDER_STATUS", "bakery.orders.status"),
			},
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Username:     getEnv("DB_USERNAME", "bakery_user"),
			Password:     getEnv("DB_PASSWORD", "bakery_pass"),
			Database:     getEnv("DB_NAME", "bakery"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Builder: BuilderConfig{
			BasePrice:     50,
			MaxImages:     getEnvInt("BUILDER_MAX_IMAGES", 5),
			MaxImageBytes: getEnvInt64("BUILDER_MAX_IMAGE_BYTES", 5*1024*1024),
			UploadLatency: time.Duration(getEnvInt("BUILDER_UPLOAD_LATENCY_MS", 400)) * time.Millisecond,
		},
		Board: BoardConfig{
			PageSize: getEnvInt("BOARD_PAGE_SIZE", 250),
		},
		Notify: NotifyConfig{
			MaxVisible:      getEnvInt("TOAST_MAX_VISIBLE", 3),
			DefaultDuration: time.Duration(getEnvInt("TOAST_DURATION_MS", 5000)) * time.Millisecond,
		},
		Stripe: StripeConfig{
			Enabled:   getEnvBool("STRIPE_ENABLED", false),
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			Currency:  getEnv("STRIPE_CURRENCY", "usd"),
		},
		Pickup: PickupConfig{
			QRSecret: getEnv("PICKUP_QR_SECRET", "emily-bakes-cakes"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
