package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/lalallama/proposaldesk/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	DataSource DataSourceConfig

	PostgresURL        string
	PostgresSecretPath string

	DevServerPort int

	LogLevel  log.Level
	LogFormat LogFormat
}

type DataSourceConfig struct {
	Mode       model.Mode
	MockDir    string
	ApiURL     *url.URL
	SecretPath string
}

// JournalEnabled reports whether a Postgres call journal was configured.
func (c Config) JournalEnabled() bool {
	return c.PostgresURL != "" || c.PostgresSecretPath != ""
}

type LogFormat string

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const (
	defaultMockDir       = "public/mock"
	defaultDevServerPort = 8787
)

type EnvfileKey string

const (
	// Where responses come from: "mock" (fixtures) or "live" (backend API)
	EnvfileKeyDataSource = "DATA_SOURCE"
	// Directory holding {resourceKey}.json and {resourceKey}.pdf fixtures
	EnvfileKeyMockDir = "MOCK_DIR"
	// Base URL to the evaluation backend, including "/api"
	EnvfileKeyApiURL = "API_URL"
	// AWS Secrets Manager path where the backend API key can be found
	EnvfileKeyApiSecretPath = "API_SECRETS_PATH"

	// Postgres connection string for the call journal
	EnvfileKeyPostgresURL = "POSTGRES_URL"
	// AWS Secrets Manager path where Postgres connection string can be found
	EnvfileKeyPostgresSecretsPath = "POSTGRES_SECRETS_PATH"

	// Port the dev server listens on
	EnvfileKeyDevServerPort = "DEV_SERVER_PORT"

	// Log level (e.g. "debug", "info", "warn", "error")
	EnvfileKeyLogLevel = "LOG_LEVEL"
	// Log output format (e.g. "text", "json")
	EnvfileKeyLogFormat = "LOG_FORMAT"
)

// FromEnvfile loads ./.env and the environment, exiting on invalid config.
func FromEnvfile() Config {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("dotenv")

	if err := v.ReadInConfig(); err != nil {
		// Environment variables alone are enough
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("error reading config: %v", err)
		}
		log.Debug("no .env file found, using environment only")
	}

	cfg, err := Load(v)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg
}

// Load builds a Config from v, with environment variables taking precedence.
func Load(v *viper.Viper) (Config, error) {
	mode, err := model.ParseMode(getConfigString(v, EnvfileKeyDataSource))
	if err != nil {
		// Default to mock mode but log a warning
		log.Warnf("unable to parse data source: %v", err)
	}

	mockDir := getConfigString(v, EnvfileKeyMockDir)
	if mockDir == "" {
		mockDir = defaultMockDir
	}

	var apiURL *url.URL
	if raw := getConfigString(v, EnvfileKeyApiURL); raw != "" {
		apiURL, err = url.Parse(raw)
		if err != nil {
			return Config{}, errors.Wrap(err, "error parsing API URL")
		}
	}
	if mode == model.ModeLive && apiURL == nil {
		return Config{}, fmt.Errorf("%s must be set when %s is %s", EnvfileKeyApiURL, EnvfileKeyDataSource, model.ModeLive)
	}

	devServerPort := getConfigInt(v, EnvfileKeyDevServerPort)
	if devServerPort == 0 {
		devServerPort = defaultDevServerPort
	}

	logLevel, err := log.ParseLevel(getConfigString(v, EnvfileKeyLogLevel))
	if err != nil {
		// Default to info level but log a warning
		log.Warnf("unable to parse log level: %v", err)
		logLevel = log.InfoLevel
	}

	logFormat, err := parseLogFormat(getConfigString(v, EnvfileKeyLogFormat))
	if err != nil {
		// Default to text formatter but log a warning
		log.Warnf("unable to parse log format: %v", err)
		logFormat = LogFormatText
	}

	return Config{
		DataSource: DataSourceConfig{
			Mode:       mode,
			MockDir:    mockDir,
			ApiURL:     apiURL,
			SecretPath: getConfigString(v, EnvfileKeyApiSecretPath),
		},
		PostgresURL:        getConfigString(v, EnvfileKeyPostgresURL),
		PostgresSecretPath: getConfigString(v, EnvfileKeyPostgresSecretsPath),
		DevServerPort:      devServerPort,
		LogLevel:           logLevel,
		LogFormat:          logFormat,
	}, nil
}

// ConfigureLogging applies the configured level and formatter to the global logger.
func ConfigureLogging(cfg Config) {
	log.SetLevel(cfg.LogLevel)
	switch cfg.LogFormat {
	case LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{})
	}
}

func parseLogFormat(raw string) (LogFormat, error) {
	switch strings.ToLower(raw) {
	case LogFormatJSON:
		return LogFormatJSON, nil
	case LogFormatText:
		return LogFormatText, nil
	default:
		return "", fmt.Errorf("unidentified log format: %s", raw)
	}
}

// Gets a config value as a string from env vars or a .env file
func getConfigString(v *viper.Viper, key string) string {
	value := os.Getenv(key)
	if value == "" {
		value = v.GetString(key)
	}
	return value
}

// Gets a config value as an int from env vars or a .env file
func getConfigInt(v *viper.Viper, key string) int {
	envVarValue := os.Getenv(key)
	if envVarValue == "" {
		return v.GetInt(key)
	}
	value, err := strconv.Atoi(envVarValue)
	if err != nil {
		return 0
	}
	return value
}
