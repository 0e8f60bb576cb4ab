package config

import (
	"os"
	"strconv"
	"strings"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Kafka     KafkaConfig     `json:"kafka"`
	Logger    LoggerConfig    `json:"logger"`
	Cache     CacheConfig     `json:"cache"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Auth      AuthConfig      `json:"auth"`
	Upload    UploadConfig    `json:"upload"`
}

// ServerConfig представляет конфигурацию HTTP сервера
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
}

// DatabaseConfig представляет конфигурацию базы данных
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

// RedisConfig представляет конфигурацию Redis
type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// KafkaConfig представляет конфигурацию Kafka
type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	GroupID string   `json:"group_id"`
	Topics  Topics   `json:"topics"`
}

// Topics представляет список топиков Kafka
type Topics struct {
	Requests     string `json:"requests"`
	Assistants   string `json:"assistants"`
	Appointments string `json:"appointments"`
}

// LoggerConfig представляет конфигурацию логгера
type LoggerConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file"`
}

// CacheConfig представляет конфигурацию кеширования
type CacheConfig struct {
	Enabled    bool `json:"enabled"`
	DefaultTTL int  `json:"default_ttl"`  // TTL для обычных данных (секунды)
	HotDataTTL int  `json:"hot_data_ttl"` // TTL для горячих данных (секунды)
}

// RateLimitConfig представляет конфигурацию ограничения частоты запросов
type RateLimitConfig struct {
	Enabled     bool `json:"enabled"`
	DefaultRPM  int  `json:"default_rpm"`
	VIPRPM      int  `json:"vip_rpm"`
	BanDuration int  `json:"ban_duration"` // секунды
}

// AuthConfig представляет конфигурацию паролей и токенов
type AuthConfig struct {
	Secret     string `json:"secret"`
	TokenTTL   int    `json:"token_ttl"` // секунды
	BCryptCost int    `json:"bcrypt_cost"`
}

// UploadConfig представляет конфигурацию хранения загружаемых файлов
type UploadConfig struct {
	Dir       string `json:"dir"`
	MaxSizeMB int    `json:"max_size_mb"`
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "care_user"),
			Password: getEnv("DB_PASSWORD", "care_pass"),
			DBName:   getEnv("DB_NAME", "care_dispatch"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			GroupID: getEnv("KAFKA_GROUP_ID", "care-dispatch"),
			Topics: Topics{
				Requests:     getEnv("KAFKA_TOPIC_REQUESTS", "requests"),
				Assistants:   getEnv("KAFKA_TOPIC_ASSISTANTS", "assistants"),
				Appointments: getEnv("KAFKA_TOPIC_APPOINTMENTS", "appointments"),
			},
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
		Cache: CacheConfig{
			Enabled:    getEnv("CACHE_ENABLED", "true") == "true",
			DefaultTTL: getEnvAsInt("CACHE_DEFAULT_TTL", 300), // 5 минут
			HotDataTTL: getEnvAsInt("CACHE_HOT_DATA_TTL", 60), // 1 минута
		},
		RateLimit: RateLimitConfig{
			Enabled:     getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			DefaultRPM:  getEnvAsInt("RATE_LIMIT_DEFAULT_RPM", 120),
			VIPRPM:      getEnvAsInt("RATE_LIMIT_VIP_RPM", 600),
			BanDuration: getEnvAsInt("RATE_LIMIT_BAN_DURATION", 300),
		},
		Auth: AuthConfig{
			Secret:     getEnv("AUTH_SECRET", "change-me"),
			TokenTTL:   getEnvAsInt("AUTH_TOKEN_TTL", 86400),
			BCryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "uploads"),
			MaxSizeMB: getEnvAsInt("UPLOAD_MAX_SIZE_MB", 5),
		},
	}
}

// getEnv получает значение переменной окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает значение переменной окружения как int с значением по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
