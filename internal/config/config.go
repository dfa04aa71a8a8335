// Package config centralizes environment-variable configuration, following
// the getEnv/getEnvAsInt/getEnvAsBool helper style used throughout the
// retrieved source (src/config, the Postgres and Kafka config loaders),
// generalized to the Mongo-backed, recovery-aware service this repo runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is every environment-sourced setting the service needs.
type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Kafka    KafkaConfig
	Recovery RecoveryConfig
	Logging  LoggingConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type MongoConfig struct {
	URI      string
	Database string
}

type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	ClientID string
}

// RecoveryConfig carries spec.md §6's runtime knob — the age a transaction
// must reach before a sweeper treats it as stuck — plus the interval the
// standalone sweeper process runs its sweeps on.
type RecoveryConfig struct {
	AgeThreshold time.Duration
	Interval     time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
}

// Load reads every setting from the environment, falling back to
// development-friendly defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "ledger"),
		},
		Kafka: KafkaConfig{
			Enabled:  getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:  getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ClientID: getEnv("KAFKA_CLIENT_ID", "ledger-core"),
		},
		Recovery: RecoveryConfig{
			AgeThreshold: time.Duration(getEnvAsInt("LEDGER_RECOVERY_AGE_MS", 5000)) * time.Millisecond,
			Interval:     time.Duration(getEnvAsInt("LEDGER_RECOVERY_INTERVAL_MS", 2000)) * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CORS: CORSConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "Accept", "X-Requested-With"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, ",")
}
