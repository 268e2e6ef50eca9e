package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Environment       string `mapstructure:"ARC_ENVIRONMENT"`
	ServerName        string `mapstructure:"ARC_SERVER_NAME"`
	ServerAddress     string `mapstructure:"ARC_SERVER_BIND_ADDR"`
	ServerReadTimeout int16  `mapstructure:"ARC_SERVER_READ_TIMEOUT"`
	LogFormat         string `mapstructure:"ARC_LOG_FORMAT"` // text or json
	LogLevel          string `mapstructure:"ARC_LOG_LEVEL"`  // debug, info, warn, error
	RateLimitMax      int    `mapstructure:"ARC_RATE_LIMIT_MAX"`
	RateLimitWindow   int    `mapstructure:"ARC_RATE_LIMIT_WINDOW"`

	DbHost           string `mapstructure:"ARC_DB_HOST"`
	DbPort           int16  `mapstructure:"ARC_DB_PORT"`
	DbSSLMode        string `mapstructure:"ARC_DB_SSL"`
	DbUser           string `mapstructure:"ARC_DB_USER"`
	DbPassword       string `mapstructure:"ARC_DB_PASSWORD"`
	DbDatabaseName   string `mapstructure:"ARC_DB_DATABASE"`
	DbMaxConnections int    `mapstructure:"ARC_DB_MAX_CONNECTIONS"`

	OtlpEndpoint   string `mapstructure:"ARC_OTLP_ENDPOINT"`
	JaegerEndpoint string `mapstructure:"ARC_JAEGER_ENDPOINT"`

	// OpenAI vision model configuration
	OpenAIAPIKey      string  `mapstructure:"ARC_OPENAI_API_KEY"`
	OpenAIModel       string  `mapstructure:"ARC_OPENAI_MODEL"`
	OpenAIBaseURL     string  `mapstructure:"ARC_OPENAI_BASE_URL"`
	OpenAIMaxTokens   int     `mapstructure:"ARC_OPENAI_MAX_TOKENS"`
	OpenAITemperature float64 `mapstructure:"ARC_OPENAI_TEMPERATURE"`

	// DeepL translation configuration
	DeepLAPIKey string `mapstructure:"ARC_DEEPL_API_KEY"`
	DeepLAPIURL string `mapstructure:"ARC_DEEPL_API_URL"`

	// Cloud Storage Configuration
	CloudProvider                string `mapstructure:"ARC_CLOUD_PROVIDER"`
	AzureStorageConnectionString string `mapstructure:"ARC_AZURE_STORAGE_CONNECTION_STRING"`
	AzureStorageAccountName      string `mapstructure:"ARC_AZURE_STORAGE_ACCOUNT_NAME"`
	AzureStorageAccountKey       string `mapstructure:"ARC_AZURE_STORAGE_ACCOUNT_KEY"`
	AzureStorageContainerName    string `mapstructure:"ARC_AZURE_STORAGE_CONTAINER_NAME"`
	AzureStorageBaseURL          string `mapstructure:"ARC_AZURE_STORAGE_BASE_URL"`
	AzureStorageUseHTTPS         bool   `mapstructure:"ARC_AZURE_STORAGE_USE_HTTPS"`
}

// DefaultConfig generates a config with sane defaults.
// Provider API keys intentionally default to empty: they are only required
// when a generation or translation is actually attempted, never at startup.
func DefaultConfig() Config {
	return Config{
		Environment:       "local",
		ServerName:        "archive-service",
		ServerAddress:     "0.0.0.0:3002",
		ServerReadTimeout: 60,
		LogFormat:         "text",
		LogLevel:          "info",
		RateLimitMax:      100,
		RateLimitWindow:   30,

		DbHost:           "localhost",
		DbPort:           5432,
		DbSSLMode:        "disable",
		DbUser:           "postgres",
		DbPassword:       "postgres",
		DbDatabaseName:   "art-archive",
		DbMaxConnections: 100,

		OtlpEndpoint:   "localhost:4317",
		JaegerEndpoint: "http://localhost:14268/api/traces",

		// OpenAI defaults
		OpenAIAPIKey:      "",
		OpenAIModel:       "gpt-4o",
		OpenAIBaseURL:     "https://api.openai.com/v1",
		OpenAIMaxTokens:   1500,
		OpenAITemperature: 0.7,

		// DeepL defaults
		DeepLAPIKey: "",
		DeepLAPIURL: "https://api-free.deepl.com/v2/translate",

		// Cloud storage defaults
		CloudProvider:                "azure",
		AzureStorageConnectionString: "",
		AzureStorageAccountName:      "",
		AzureStorageAccountKey:       "",
		AzureStorageContainerName:    "artworks",
		AzureStorageBaseURL:          "",
		AzureStorageUseHTTPS:         true,
	}
}

// LoadConfig will attempt to load a configuration from the default file location and fallback to environment variables.
func LoadConfig() (Config, error) {
	envFile := os.Getenv("ARC_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	var cfg Config
	var err error

	if _, err = os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		cfg, err = ConfigFromEnvironment()
	} else {
		cfg, err = ConfigFromFile(envFile)
	}

	return cfg, err
}

// ConfigFromEnvironment will look for the specified configuration from environment variables.
// See package docs for a list of available environment variables.
func ConfigFromEnvironment() (config Config, err error) {
	// Set defaults
	config = DefaultConfig()
	viper.SetDefault("ARC_ENVIRONMENT", config.Environment)
	viper.SetDefault("ARC_SERVER_NAME", config.ServerName)
	viper.SetDefault("ARC_SERVER_BIND_ADDR", config.ServerAddress)
	viper.SetDefault("ARC_SERVER_READ_TIMEOUT", config.ServerReadTimeout)
	viper.SetDefault("ARC_LOG_LEVEL", config.LogLevel)
	viper.SetDefault("ARC_LOG_FORMAT", config.LogFormat)
	viper.SetDefault("ARC_RATE_LIMIT_MAX", config.RateLimitMax)
	viper.SetDefault("ARC_RATE_LIMIT_WINDOW", config.RateLimitWindow)
	viper.SetDefault("ARC_DB_HOST", config.DbHost)
	viper.SetDefault("ARC_DB_PORT", config.DbPort)
	viper.SetDefault("ARC_DB_SSL", config.DbSSLMode)
	viper.SetDefault("ARC_DB_USER", config.DbUser)
	viper.SetDefault("ARC_DB_PASSWORD", config.DbPassword)
	viper.SetDefault("ARC_DB_DATABASE", config.DbDatabaseName)
	viper.SetDefault("ARC_DB_MAX_CONNECTIONS", config.DbMaxConnections)
	viper.SetDefault("ARC_OTLP_ENDPOINT", config.OtlpEndpoint)
	viper.SetDefault("ARC_JAEGER_ENDPOINT", config.JaegerEndpoint)
	viper.SetDefault("ARC_OPENAI_API_KEY", config.OpenAIAPIKey)
	viper.SetDefault("ARC_OPENAI_MODEL", config.OpenAIModel)
	viper.SetDefault("ARC_OPENAI_BASE_URL", config.OpenAIBaseURL)
	viper.SetDefault("ARC_OPENAI_MAX_TOKENS", config.OpenAIMaxTokens)
	viper.SetDefault("ARC_OPENAI_TEMPERATURE", config.OpenAITemperature)
	viper.SetDefault("ARC_DEEPL_API_KEY", config.DeepLAPIKey)
	viper.SetDefault("ARC_DEEPL_API_URL", config.DeepLAPIURL)
	viper.SetDefault("ARC_CLOUD_PROVIDER", config.CloudProvider)
	viper.SetDefault("ARC_AZURE_STORAGE_CONNECTION_STRING", config.AzureStorageConnectionString)
	viper.SetDefault("ARC_AZURE_STORAGE_ACCOUNT_NAME", config.AzureStorageAccountName)
	viper.SetDefault("ARC_AZURE_STORAGE_ACCOUNT_KEY", config.AzureStorageAccountKey)
	viper.SetDefault("ARC_AZURE_STORAGE_CONTAINER_NAME", config.AzureStorageContainerName)
	viper.SetDefault("ARC_AZURE_STORAGE_BASE_URL", config.AzureStorageBaseURL)
	viper.SetDefault("ARC_AZURE_STORAGE_USE_HTTPS", config.AzureStorageUseHTTPS)

	// Override config values with environment variables
	viper.AutomaticEnv()
	err = viper.Unmarshal(&config)
	return
}

// ConfigFromFile will look for the specified configuration file in the current directory and initialize
// a Config from it. Values provided by environment variables will override ones found in
// the file. See package docs for a list of available environment variables.
func ConfigFromFile(f string) (config Config, err error) {
	if config, err = ConfigFromEnvironment(); err != nil {
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigFile(f)
	viper.SetConfigType("env")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)

	return
}

// Fiber initializes and returns a Fiber config based on server config values.
// See https://docs.gofiber.io/api/fiber#config
func (c Config) Fiber() fiber.Config {
	return fiber.Config{
		ReadTimeout: time.Second * time.Duration(c.ServerReadTimeout),
		BodyLimit:   25 * 1024 * 1024, // high-resolution artwork scans
	}
}

// DbConnectionString generates a connection string for the database based on config values.
func (c Config) DbConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s", c.DbUser, url.QueryEscape(c.DbPassword), c.DbHost, c.DbPort, c.DbDatabaseName, c.DbSSLMode)
}

// GetSlogLevel converts the string log level to slog.Level.
func (c Config) GetSlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetOpenAIConfig converts config values to the vision model configuration struct.
func (c Config) GetOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.OpenAIAPIKey,
		Model:       c.OpenAIModel,
		BaseURL:     c.OpenAIBaseURL,
		MaxTokens:   c.OpenAIMaxTokens,
		Temperature: c.OpenAITemperature,
	}
}

// OpenAIConfig holds vision model client configuration
type OpenAIConfig struct {
	APIKey      string
	Model       string // vision-capable model, e.g. "gpt-4o"
	BaseURL     string // for switching to a proxy or local model later
	MaxTokens   int
	Temperature float64
}

// GetDeepLConfig converts config values to the translation provider configuration struct.
func (c Config) GetDeepLConfig() DeepLConfig {
	return DeepLConfig{
		APIKey: c.DeepLAPIKey,
		APIURL: c.DeepLAPIURL,
	}
}

// DeepLConfig holds translation provider configuration
type DeepLConfig struct {
	APIKey string
	APIURL string
}

// GetCloudConfig converts config values to cloud storage configuration struct.
func (c Config) GetCloudConfig() CloudConfig {
	return CloudConfig{
		Provider: c.CloudProvider,
		Azure: AzureCloudConfig{
			StorageAccountName: c.AzureStorageAccountName,
			StorageAccountKey:  c.AzureStorageAccountKey,
			ConnectionString:   c.AzureStorageConnectionString,
			ContainerName:      c.AzureStorageContainerName,
			BaseURL:            c.AzureStorageBaseURL,
			UseHTTPS:           c.AzureStorageUseHTTPS,
		},
	}
}

// CloudConfig holds cloud storage configuration
type CloudConfig struct {
	Provider string
	Azure    AzureCloudConfig
	// AWS and GCP configs can be added later
}

// AzureCloudConfig holds Azure Blob Storage specific configuration
type AzureCloudConfig struct {
	StorageAccountName string
	StorageAccountKey  string
	ConnectionString   string
	ContainerName      string
	BaseURL            string
	UseHTTPS           bool
}
