package config

import (
	"os"
	"time"
)

// Config конфигурация сервиса, собираемая из переменных окружения
type Config struct {
	// Address адрес, на котором слушает HTTP сервер
	Address string
	// LogLevel уровень логирования (debug, info, warn, error)
	LogLevel string
	// DataDir корневой каталог для хранения файлов
	DataDir string
	// AdminToken токен для доступа к административным операциям.
	// Пустое значение отключает административный API.
	AdminToken string
	// StatisticsDSN строка подключения к базе статистики.
	// Пустое значение отключает сбор статистики.
	StatisticsDSN string
	// OTLPEndpoint адрес коллектора трассировки.
	// Пустое значение отключает трассировку.
	OTLPEndpoint string
	// RequestTimeout максимальное время обработки одного запроса
	RequestTimeout time.Duration
}

// Load читает конфигурацию из переменных окружения
func Load() Config {
	return Config{
		Address:        getEnvWithDefault("SERVER_ADDRESS", ":8080"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		DataDir:        getEnvWithDefault("DATA_DIR", "./data"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		StatisticsDSN:  os.Getenv("STATISTICS_DB_DSN"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		RequestTimeout: getEnvDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
