package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Notify   NotifyConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type AuthConfig struct {
	APIKey string
}

type CatalogConfig struct {
	File string
}

type NotifyConfig struct {
	WebhookURL string
	Timeout    time.Duration
	QueueSize  int
	Workers    int
}

// RedisConfig is optional; an empty Addr keeps idempotency keys in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig is optional; no brokers means no Kafka sink.
type KafkaConfig struct {
	Brokers      []string
	TopicBooking string
}

type ObservabilityConfig struct {
	ServiceName      string
	LogLevel         string
	JaegerEndpoint   string
	TraceSampleRatio float64
}

type BusinessConfig struct {
	// ServiceArea is the locality every delivery address must mention. Empty disables the check.
	ServiceArea        string
	DeliveryETAMinutes int
	IdempotencyTTL     time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	notifyTimeout, _ := strconv.Atoi(getEnv("NOTIFY_TIMEOUT_SECONDS", "5"))
	queueSize, _ := strconv.Atoi(getEnv("NOTIFY_QUEUE_SIZE", "100"))
	workers, _ := strconv.Atoi(getEnv("NOTIFY_WORKERS", "2"))
	eta, _ := strconv.Atoi(getEnv("DELIVERY_ETA_MINUTES", "45"))
	idemTTL, _ := strconv.Atoi(getEnv("IDEMPOTENCY_TTL_SECONDS", "86400"))
	sampleRatio, err := strconv.ParseFloat(getEnv("TRACE_SAMPLE_RATIO", "1"), 64)
	if err != nil {
		sampleRatio = 1
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", "AURA-TEST-KEY-12345"),
		},
		Catalog: CatalogConfig{
			File: os.Getenv("CATALOG_FILE"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			Timeout:    time.Duration(notifyTimeout) * time.Second,
			QueueSize:  queueSize,
			Workers:    workers,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(os.Getenv("KAFKA_BROKERS")),
			TopicBooking: getEnv("KAFKA_TOPIC_BOOKING_EVENTS", "booking-events"),
		},
		Observ: ObservabilityConfig{
			ServiceName:      getEnv("SERVICE_NAME", "booking-service"),
			LogLevel:         os.Getenv("LOG_LEVEL"),
			JaegerEndpoint:   os.Getenv("JAEGER_ENDPOINT"),
			TraceSampleRatio: sampleRatio,
		},
		Business: BusinessConfig{
			ServiceArea:        lookupEnv("SERVICE_AREA", "Ongole"),
			DeliveryETAMinutes: eta,
			IdempotencyTTL:     time.Duration(idemTTL) * time.Second,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, service_area=%q", cfg.Server.Env, cfg.Server.Port, cfg.Business.ServiceArea)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// lookupEnv is like getEnv but honours an explicitly empty value.
func lookupEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
