// Package config reads the configuration of the backend from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	NotifierLog   = "log"
	NotifierEmail = "email"
	NotifierAMQP  = "amqp"
)

type Config struct {
	// HTTP server
	APIURL           *url.URL
	Port             string
	CORSAllowOrigins []string
	EnablePprof      bool

	// Database
	DatabaseURL string

	// Identity
	JWTSecret string

	// Budget alerts
	AlertInterval     time.Duration
	AlertTimeout      time.Duration
	AlertConcurrency  int
	AlertTriggerToken string
	AlertLocale       language.Tag

	// Notifier selection and settings
	Notifier       string
	EmailAPIURL    string
	EmailAPIKey    string
	EmailFrom      string
	EmailRateLimit int
	AMQPURL        string
	AMQPExchange   string
	AMQPQueue      string

	// Values that could not be parsed, reported by Validate
	problems []string
}

// Load reads the configuration from the environment. Call Validate before
// using it.
func Load() *Config {
	c := &Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		EnablePprof:      os.Getenv("ENABLE_PPROF") == "true",

		DatabaseURL: getEnv("DATABASE_URL", "data/rupify.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		AlertTriggerToken: os.Getenv("BUDGET_ALERT_TRIGGER_TOKEN"),

		Notifier:    getEnv("NOTIFIER", NotifierLog),
		EmailAPIURL: getEnv("EMAIL_API_URL", "https://api.resend.com"),
		EmailAPIKey: os.Getenv("EMAIL_API_KEY"),
		EmailFrom:   os.Getenv("EMAIL_FROM"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "rupify"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_alerts"),
	}

	c.AlertInterval = c.getEnvDuration("BUDGET_ALERT_INTERVAL", 6*time.Hour)
	c.AlertTimeout = c.getEnvDuration("BUDGET_ALERT_TIMEOUT", 30*time.Second)
	c.AlertConcurrency = c.getEnvInt("BUDGET_ALERT_CONCURRENCY", 4)
	c.EmailRateLimit = c.getEnvInt("EMAIL_RATE_LIMIT", 2)

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		c.problems = append(c.problems, "API_URL must be set")
	} else if u, err := url.Parse(apiURL); err != nil || u.Scheme == "" || u.Host == "" {
		c.problems = append(c.problems, fmt.Sprintf("invalid API_URL '%s': must be an absolute URL", apiURL))
	} else {
		c.APIURL = u
	}

	c.AlertLocale = language.English
	if locale := os.Getenv("ALERT_LOCALE"); locale != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			c.problems = append(c.problems, fmt.Sprintf("invalid ALERT_LOCALE '%s': %v", locale, err))
		} else {
			c.AlertLocale = tag
		}
	}

	return c
}

// Validate returns an error listing every problem with the configuration.
func (c *Config) Validate() error {
	errors := append([]string{}, c.problems...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DatabaseURL == "" {
		errors = append(errors, "DATABASE_URL cannot be empty")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET must be set")
	}

	if c.AlertInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid budget alert interval %v: must be at least 1 minute", c.AlertInterval))
	}

	if c.AlertTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid budget alert timeout %v: must be positive", c.AlertTimeout))
	}

	if c.AlertConcurrency < 1 {
		errors = append(errors, fmt.Sprintf("invalid budget alert concurrency %d: must be at least 1", c.AlertConcurrency))
	}

	switch c.Notifier {
	case NotifierLog:
	case NotifierEmail:
		if c.EmailAPIKey == "" {
			errors = append(errors, "EMAIL_API_KEY must be set when using the email notifier")
		}
		if c.EmailFrom == "" {
			errors = append(errors, "EMAIL_FROM must be set when using the email notifier")
		}
		if u, err := url.Parse(c.EmailAPIURL); err != nil || u.Scheme == "" {
			errors = append(errors, fmt.Sprintf("invalid EMAIL_API_URL '%s'", c.EmailAPIURL))
		}
		if c.EmailRateLimit < 1 {
			errors = append(errors, fmt.Sprintf("invalid email rate limit %d: must be at least 1", c.EmailRateLimit))
		}
	case NotifierAMQP:
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil || c.AMQPURL == "" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s'", c.AMQPURL))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when using the amqp notifier")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when using the amqp notifier")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid notifier '%s': must be one of %v", c.Notifier, []string{NotifierLog, NotifierEmail, NotifierAMQP}))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a number", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a duration like 6h", key, value))
		return defaultValue
	}
	return d
}
