// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// DBDSN is the ClickHouse connection string.
	DBDSN string

	// ServerPort is the HTTP API listen port.
	ServerPort string

	// LogJSON switches the logger to JSON output (for production).
	LogJSON bool

	// KafkaTransactions contains Kafka settings for the inbound transaction stream.
	KafkaTransactions KafkaConfig

	// KafkaAlerts contains Kafka settings for the outbound fired-alert stream.
	KafkaAlerts KafkaConfig

	// Ingester contains batch settings for the transaction ingester.
	Ingester IngesterConfig

	// Updater contains settings for the periodic market-data updater.
	Updater UpdaterConfig

	// PriceSource contains settings for the market price provider client.
	PriceSource PriceSourceConfig
}

// KafkaConfig holds Kafka connection settings for one topic.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic name.
	Topic string

	// GroupID is the consumer group ID (empty for producers).
	GroupID string
}

// IngesterConfig holds settings for batch processing of transactions.
type IngesterConfig struct {
	// BatchSize is the maximum number of transactions to accumulate before flushing.
	BatchSize int

	// BatchTimeout is the maximum time to wait before flushing a partial batch.
	BatchTimeout time.Duration
}

// UpdaterConfig holds settings for the market-data update cycle.
type UpdaterConfig struct {
	// Interval is the time between ingestion cycles.
	Interval time.Duration
}

// PriceSourceConfig holds settings for the CoinGecko markets client.
type PriceSourceConfig struct {
	// BaseURL is the API base URL.
	BaseURL string

	// CoinsPerPage is how many coins to fetch per cycle, ordered by market cap.
	CoinsPerPage int

	// RequestsPerMinute caps outbound requests to respect the provider rate limit.
	RequestsPerMinute float64

	// RequestTimeout bounds a single fetch.
	RequestTimeout time.Duration
}

// getDatabaseDSN constructs the ClickHouse DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("CLICKHOUSE_USER", "default")
	dbPassword := getEnv("CLICKHOUSE_PASSWORD", "")
	dbHost := getEnv("CLICKHOUSE_HOST", "localhost")
	dbPort := getEnv("CLICKHOUSE_TCP_PORT", "9000")
	dbName := getEnv("CLICKHOUSE_DB", "polymatrix")

	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		DBDSN:      getDatabaseDSN(),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogJSON:    getEnv("LOG_FORMAT", "text") == "json",
		KafkaTransactions: KafkaConfig{
			Broker:  getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:   getEnv("KAFKA_TRANSACTION_TOPIC", "polymatrix_transactions"),
			GroupID: getEnv("KAFKA_TRANSACTION_GROUP_ID", "polymatrix-tx-ingester"),
		},
		KafkaAlerts: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:  getEnv("KAFKA_ALERT_TOPIC", "polymatrix_alerts"),
		},
		Ingester: IngesterConfig{
			BatchSize:    getEnvInt("BATCH_SIZE", 200),
			BatchTimeout: time.Duration(getEnvInt("BATCH_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Updater: UpdaterConfig{
			Interval: time.Duration(getEnvInt("UPDATE_INTERVAL_SECONDS", 300)) * time.Second,
		},
		PriceSource: PriceSourceConfig{
			BaseURL:           getEnv("PRICE_SOURCE_URL", "https://api.coingecko.com/api/v3"),
			CoinsPerPage:      getEnvInt("PRICE_SOURCE_COINS", 20),
			RequestsPerMinute: float64(getEnvInt("PRICE_SOURCE_RPM", 4)),
			RequestTimeout:    time.Duration(getEnvInt("PRICE_SOURCE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
