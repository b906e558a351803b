package cmd

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/telemetry"

	"github.com/joho/godotenv"
)

const ServiceName = "savannah"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers           []string
	KafkaNotificationTopic string
	KafkaConsumerGroup     string
	RedisAddr              string

	ATUsername string
	ATAPIKey   string
	ATSenderID string
	ATSandbox  bool

	DefaultCountryCode        string
	APITokens                 []string
	OrderSameStatusPolicy     string
	NotificationRetrySchedule string

	LogLevel                 string
	OtelExporterOTLPEndpoint string
	ServiceVersion           string
}

// LoadConfig reads the environment after merging an optional .env file.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	cfg := configFromEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func configFromEnv(getenv func(string) string) Config {
	return Config{
		HTTPPort:   withDefault(getenv("HTTP_PORT"), "8080"),
		DBHost:     getenv("DB_HOST"),
		DBPort:     withDefault(getenv("DB_PORT"), "5432"),
		DBUser:     getenv("DB_USER"),
		DBPassword: getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME"),
		DBSslMode:  getenv("DB_SSLMODE"),

		KafkaBrokers:           splitList(getenv("KAFKA_BROKERS")),
		KafkaNotificationTopic: getenv("KAFKA_NOTIFICATION_TOPIC"),
		KafkaConsumerGroup:     getenv("KAFKA_CONSUMER_GROUP"),
		RedisAddr:              getenv("REDIS_ADDR"),

		ATUsername: withDefault(getenv("AT_USERNAME"), "sandbox"),
		ATAPIKey:   getenv("AT_API_KEY"),
		ATSenderID: getenv("AT_SENDER_ID"),
		ATSandbox:  parseBool(getenv("AT_SANDBOX")),

		DefaultCountryCode:        withDefault(getenv("DEFAULT_COUNTRY_CODE"), kernel.DefaultCountryCode),
		APITokens:                 splitList(getenv("API_TOKENS")),
		OrderSameStatusPolicy:     getenv("ORDER_SAME_STATUS_POLICY"),
		NotificationRetrySchedule: getenv("NOTIFICATION_RETRY_SCHEDULE"),

		LogLevel:                 withDefault(getenv("LOG_LEVEL"), "info"),
		OtelExporterOTLPEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceVersion:           withDefault(getenv("SERVICE_VERSION"), "dev"),
	}
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var errList []error
	for key, value := range map[string]string{
		"DB_HOST": c.DBHost,
		"DB_USER": c.DBUser,
		"DB_NAME": c.DBName,
	} {
		if value == "" {
			errList = append(errList, errors.New(key+" is required"))
		}
	}
	if _, err := order.ParseSameStatusPolicy(c.OrderSameStatusPolicy); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

func (c Config) DB() telemetry.DBConfig {
	return telemetry.DBConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}
