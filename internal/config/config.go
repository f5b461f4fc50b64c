package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_ssl_mode"`
	DBPath     string `json:"db_path"`

	// Connection pool tuning
	DBMaxOpenConns           int `json:"db_max_open_conns"`
	DBMaxIdleConns           int `json:"db_max_idle_conns"`
	DBConnMaxLifetimeMinutes int `json:"db_conn_max_lifetime_minutes"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret       string `json:"jwt_secret"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`

	// Catalog scheduler
	SchedulerIntervalSeconds int `json:"scheduler_interval_seconds"`

	// Pricing
	TaxRate        float64 `json:"tax_rate"`
	DeliveryCharge float64 `json:"delivery_charge"`

	// Agent earnings
	BasePayPerDelivery float64 `json:"base_pay_per_delivery"`
	TripBonusAmount    float64 `json:"trip_bonus_amount"`
	TripBonusEvery     int     `json:"trip_bonus_every"`

	// Insights
	OnTimeThresholdMinutes int `json:"on_time_threshold_minutes"`

	// Mail configuration. Mail is disabled when SMTPHost is empty.
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	MailFrom     string `json:"mail_from"`
	ResetBaseURL string `json:"reset_base_url"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], SchedulerIntervalSeconds: %d, TaxRate: %.2f, DeliveryCharge: %.2f, BasePayPerDelivery: %.2f, TripBonusAmount: %.2f, TripBonusEvery: %d, SMTPHost: %s}",
		c.Port, c.Host, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.LogLevel,
		c.SchedulerIntervalSeconds, c.TaxRate, c.DeliveryCharge,
		c.BasePayPerDelivery, c.TripBonusAmount, c.TripBonusEvery, c.SMTPHost)
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port: port,
		Host: GetEnvWithDefault("APP_HOST", "localhost"),

		DBDriver:   GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:     GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     GetEnvWithDefault("DB_PORT", "5432"),
		DBName:     GetEnvWithDefault("DB_NAME", "hifieats"),
		DBUser:     GetEnvWithDefault("DB_USER", "user"),
		DBPassword: GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:  GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:     GetEnvWithDefault("DB_PATH", "hifieats.db"),

		DBMaxOpenConns:           GetEnvAsType("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:           GetEnvAsType("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMinutes: GetEnvAsType("DB_CONN_MAX_LIFETIME_MINUTES", 5),

		LogLevel: GetEnvWithDefault("LOG_LEVEL", "info"),

		JWTSecret:       GetEnvWithDefault("JWT_SECRET", "secret"),
		TokenTTLMinutes: GetEnvAsType("TOKEN_TTL_MINUTES", 720),

		SchedulerIntervalSeconds: GetEnvAsType("SCHEDULER_INTERVAL_SECONDS", 60),

		TaxRate:        getEnvAsFloat("TAX_RATE", 0.18),
		DeliveryCharge: getEnvAsFloat("DELIVERY_CHARGE", 50.0),

		BasePayPerDelivery: getEnvAsFloat("BASE_PAY_PER_DELIVERY", 50.0),
		TripBonusAmount:    getEnvAsFloat("TRIP_BONUS_AMOUNT", 100.0),
		TripBonusEvery:     GetEnvAsType("TRIP_BONUS_EVERY", 5),

		OnTimeThresholdMinutes: GetEnvAsType("ON_TIME_THRESHOLD_MINUTES", 40),

		SMTPHost:     GetEnvWithDefault("SMTP_HOST", ""),
		SMTPPort:     GetEnvAsType("SMTP_PORT", 587),
		SMTPUser:     GetEnvWithDefault("SMTP_USER", ""),
		SMTPPassword: GetEnvWithDefault("SMTP_PASSWORD", ""),
		MailFrom:     GetEnvWithDefault("MAIL_FROM", "no-reply@hifieats.local"),
		ResetBaseURL: GetEnvWithDefault("RESET_BASE_URL", "http://localhost:8080/reset-password"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}

// getEnvAsFloat reads a float64 environment variable with a default.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
