package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	Env       string `mapstructure:"APP_ENV"`
	Port      string `mapstructure:"PORT"`
	RunLocal  bool   `mapstructure:"RUN_LOCAL"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	StoreBackend       string `mapstructure:"STORE_BACKEND"`
	DataFile           string `mapstructure:"DATA_FILE"`
	DynamoDBTable      string `mapstructure:"DYNAMODB_TABLE"`
	DynamoDBCollection string `mapstructure:"DYNAMODB_COLLECTION"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`
	RedisKey           string `mapstructure:"REDIS_KEY"`

	AdminSecret     string        `mapstructure:"ADMIN_SECRET"`
	AdminListLimit  int           `mapstructure:"ADMIN_LIST_LIMIT"`
	DuplicateWindow time.Duration `mapstructure:"DUPLICATE_WINDOW"`

	AWSRegion           string `mapstructure:"AWS_REGION"`
	AWSEndpointOverride string `mapstructure:"AWS_ENDPOINT_OVERRIDE"`
	AWSAccessKeyID      string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey  string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	LeadsQueueURL       string `mapstructure:"LEADS_QUEUE_URL"`
	MetricsNamespace    string `mapstructure:"METRICS_NAMESPACE"`
}

var defaults = map[string]interface{}{
	"APP_ENV":               "development",
	"PORT":                  "8080",
	"RUN_LOCAL":             false,
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"STORE_BACKEND":         BackendFile,
	"DATA_FILE":             "requests.json",
	"DYNAMODB_TABLE":        "leads",
	"DYNAMODB_COLLECTION":   "requests",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"REDIS_KEY":             "leadflow:requests",
	"ADMIN_SECRET":          "",
	"ADMIN_LIST_LIMIT":      100,
	"DUPLICATE_WINDOW":      24 * time.Hour,
	"AWS_REGION":            "us-east-1",
	"AWS_ENDPOINT_OVERRIDE": "",
	"AWS_ACCESS_KEY_ID":     "",
	"AWS_SECRET_ACCESS_KEY": "",
	"LEADS_QUEUE_URL":       "",
	"METRICS_NAMESPACE":     "LeadFlow",
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Production reports whether error details must be withheld from responses.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file backend")
		}
	case BackendDynamoDB:
		if c.DynamoDBTable == "" || c.DynamoDBCollection == "" {
			return fmt.Errorf("DYNAMODB_TABLE and DYNAMODB_COLLECTION are required for the dynamodb backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" || c.RedisKey == "" {
			return fmt.Errorf("REDIS_ADDR and REDIS_KEY are required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.AdminListLimit < 0 {
		return fmt.Errorf("ADMIN_LIST_LIMIT must be >= 0")
	}
	if c.DuplicateWindow <= 0 {
		return fmt.Errorf("DUPLICATE_WINDOW must be positive")
	}
	return nil
}
