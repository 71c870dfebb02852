package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL string
	LogLevel    string
	Debug       bool
	ServiceName string
	Environment string
	ServerPort  string

	// AI completion backends, tried in priority order.
	OpenRouterAPIKey string
	PerplexityAPIKey string

	// Env fallback for the WhatsApp provider when no config document exists.
	WhatsAppProvider string
	ZAPIInstanceID   string
	ZAPIToken        string
	ZAPIClientToken  string
	WhatsAppAPIHost  string
	UltraMsgInstance string
	UltraMsgToken    string

	// Per-IP rate limit applied to the dashboard API routes.
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	debug := os.Getenv("DEBUG")
	if debug == "" {
		debug = "false"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "zapdesk"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	serverPort := os.Getenv("PORT")
	if serverPort == "" {
		serverPort = "3001"
	}

	rateLimitRPS := 10.0
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			rateLimitRPS = parsed
		}
	}

	rateLimitBurst := 30
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			rateLimitBurst = parsed
		}
	}

	return &Config{
		DatabaseURL: databaseURL,
		LogLevel:    logLevel,
		Debug:       debug == "true",
		ServiceName: serviceName,
		Environment: environment,
		ServerPort:  serverPort,

		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		PerplexityAPIKey: os.Getenv("PERPLEXITY_API_KEY"),

		WhatsAppProvider: os.Getenv("WHATSAPP_PROVIDER"),
		ZAPIInstanceID:   os.Getenv("ZAPI_INSTANCE_ID"),
		ZAPIToken:        os.Getenv("ZAPI_TOKEN"),
		ZAPIClientToken:  os.Getenv("ZAPI_CLIENT_TOKEN"),
		WhatsAppAPIHost:  os.Getenv("WHATSAPP_API_HOST"),
		UltraMsgInstance: os.Getenv("ULTRAMSG_INSTANCE_ID"),
		UltraMsgToken:    os.Getenv("ULTRAMSG_TOKEN"),

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,
	}, nil
}
