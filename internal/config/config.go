package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects everything cmd/api wires from the environment. godotenv.Load
// in Load keeps local dev on a .env file; in deployment the vars come from the
// environment directly.
type Config struct {
	Port        string
	DatabaseURL string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	// PipelineFile points at the optional YAML with category keyword tables
	// and board title candidates. Empty means compiled-in defaults.
	PipelineFile string
}

func Load() *Config {
	godotenv.Load()

	mailPort, err := strconv.Atoi(getenv("MAIL_PORT", "587"))
	if err != nil {
		mailPort = 587
	}

	return &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RabbitUser: getenv("RABBITMQ_USER", "guest"),
		RabbitPass: getenv("RABBITMQ_PASS", "guest"),
		RabbitHost: getenv("RABBITMQ_HOST", "localhost"),
		RabbitPort: getenv("RABBITMQ_PORT", "5672"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: mailPort,
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getenv("MAIL_FROM", "no-reply@flowdesk.app"),

		PipelineFile: os.Getenv("PIPELINE_CONFIG"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
