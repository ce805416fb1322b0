package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type ProjectSource string

const (
	ProjectSourceAPI     ProjectSource = "api"
	ProjectSourceWebhook ProjectSource = "webhook"
)

const (
	defaultPort                   = "8080"
	defaultRefreshIntervalMinutes = 15
	defaultPollInterval           = 5 * time.Minute
	defaultTimezone               = "America/Sao_Paulo"
	defaultProjectClient          = "Cliente IA"
	defaultProjectBudget          = "R$ 28.500,00"
)

type Config struct {
	cloudSQLUnixSocketPath string
	dBPassword             string
	dBUsername             string
	sentryDSN              string
	jwtSecret              string
	gcpProject             string
	otelEnabled            bool

	port           string
	allowedOrigins []string
	location       *time.Location

	projectSource   ProjectSource
	clickUpAPIKey   string
	clickUpWebhook  string
	teamID          string
	spaceID         string
	listID          string
	refreshInterval time.Duration
	pollInterval    time.Duration
	projectClient   string
	projectBudget   string

	env environment
}

func (c *Config) CloudSQLUnixSocketPath() string {
	return c.cloudSQLUnixSocketPath
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) JWTSecret() string {
	return c.jwtSecret
}

// Google Cloud project used to correlate logs with traces. Empty when unset.
func (c *Config) GCPProject() string {
	return c.gcpProject
}

func (c *Config) OTelEnabled() bool {
	return c.otelEnabled
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) AllowedOrigins() []string {
	return c.allowedOrigins
}

func (c *Config) Location() *time.Location {
	return c.location
}

func (c *Config) ProjectSource() ProjectSource {
	return c.projectSource
}

func (c *Config) ClickUpAPIKey() string {
	return c.clickUpAPIKey
}

func (c *Config) ClickUpWebhookURL() string {
	return c.clickUpWebhook
}

func (c *Config) TeamID() string {
	return c.teamID
}

func (c *Config) SpaceID() string {
	return c.spaceID
}

func (c *Config) ListID() string {
	return c.listID
}

func (c *Config) RefreshInterval() time.Duration {
	return c.refreshInterval
}

func (c *Config) PollInterval() time.Duration {
	return c.pollInterval
}

func (c *Config) ProjectClient() string {
	return c.projectClient
}

func (c *Config) ProjectBudget() string {
	return c.projectBudget
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, source: %s, listID: %s, refreshInterval: %s, pollInterval: %s, timezone: %s, ...}",
		string(c.env),
		string(c.projectSource),
		c.listID,
		c.refreshInterval,
		c.pollInterval,
		c.location.String(),
	)
}

func getOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}
	invalidValue := func(key, value string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s (%s)", ErrInvalidValue, key, value)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("CLIENTBOARD_ENVIRONMENT")
	if !ok {
		return missingKey("CLIENTBOARD_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return invalidValue("CLIENTBOARD_ENVIRONMENT", rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	var projectSource ProjectSource
	rawSource := getOrDefault("PROJECT_SOURCE", string(ProjectSourceAPI))
	switch rawSource {
	case string(ProjectSourceAPI):
		projectSource = ProjectSourceAPI
	case string(ProjectSourceWebhook):
		projectSource = ProjectSourceWebhook
	default:
		return invalidValue("PROJECT_SOURCE", rawSource)
	}

	refreshMinutes := defaultRefreshIntervalMinutes
	if raw := os.Getenv("REFRESH_INTERVAL_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return invalidValue("REFRESH_INTERVAL_MINUTES", raw)
		}
		refreshMinutes = parsed
	}

	pollInterval := defaultPollInterval
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return invalidValue("POLL_INTERVAL", raw)
		}
		pollInterval = parsed
	}

	rawTimezone := getOrDefault("TIMEZONE", defaultTimezone)
	location, err := time.LoadLocation(rawTimezone)
	if err != nil {
		return invalidValue("TIMEZONE", rawTimezone)
	}

	otelEnabled := false
	if raw := os.Getenv("OTEL_ENABLED"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return invalidValue("OTEL_ENABLED", raw)
		}
		otelEnabled = parsed
	}

	cloudSQLUnixSocketPath := os.Getenv("CLOUDSQL_UNIX_SOCKET")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbUsername := os.Getenv("DB_USERNAME")
	sentryDSN := os.Getenv("SENTRY_DSN")
	jwtSecret := os.Getenv("JWT_SECRET")
	clickUpAPIKey := os.Getenv("CLICKUP_API_KEY")
	clickUpWebhook := os.Getenv("CLICKUP_WEBHOOK_URL")

	if env == production || env == staging {
		if cloudSQLUnixSocketPath == "" {
			return missingKey("CLOUDSQL_UNIX_SOCKET")
		}
		if dbUsername == "" {
			return missingKey("DB_USERNAME")
		}
		if dbPassword == "" {
			return missingKey("DB_PASSWORD")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
		if jwtSecret == "" {
			return missingKey("JWT_SECRET")
		}
		if projectSource == ProjectSourceAPI && clickUpAPIKey == "" {
			return missingKey("CLICKUP_API_KEY")
		}
	}

	// The webhook pipeline has no mocked counterpart
	if projectSource == ProjectSourceWebhook && clickUpWebhook == "" {
		return missingKey("CLICKUP_WEBHOOK_URL")
	}

	return Config{
		cloudSQLUnixSocketPath: cloudSQLUnixSocketPath,
		dBPassword:             dbPassword,
		dBUsername:             dbUsername,
		sentryDSN:              sentryDSN,
		jwtSecret:              jwtSecret,
		gcpProject:             os.Getenv("GOOGLE_CLOUD_PROJECT"),
		otelEnabled:            otelEnabled,

		port:           getOrDefault("PORT", defaultPort),
		allowedOrigins: splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		location:       location,

		projectSource:   projectSource,
		clickUpAPIKey:   clickUpAPIKey,
		clickUpWebhook:  clickUpWebhook,
		teamID:          os.Getenv("CLICKUP_TEAM_ID"),
		spaceID:         os.Getenv("CLICKUP_SPACE_ID"),
		listID:          os.Getenv("CLICKUP_LIST_ID"),
		refreshInterval: time.Duration(refreshMinutes) * time.Minute,
		pollInterval:    pollInterval,
		projectClient:   getOrDefault("PROJECT_CLIENT", defaultProjectClient),
		projectBudget:   getOrDefault("PROJECT_BUDGET", defaultProjectBudget),

		env: env,
	}, nil
}
