package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL         string
	Port                string
	Env                 string
	OpenAIKey           string
	ChatSummaryEnabled  bool
	OverdueSweepCron    string
	DefaultCustomerName string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Port:                os.Getenv("PORT"),
		Env:                 os.Getenv("ENV"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatSummaryEnabled:  os.Getenv("CHAT_SUMMARY") == "true",
		OverdueSweepCron:    os.Getenv("OVERDUE_SWEEP_CRON"),
		DefaultCustomerName: os.Getenv("DEFAULT_CUSTOMER_NAME"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.OverdueSweepCron == "" {
		cfg.OverdueSweepCron = "0 0 2 * * *" // daily at 02:00
	}
	if cfg.DefaultCustomerName == "" {
		cfg.DefaultCustomerName = "Your Company GmbH"
	}

	return cfg
}
