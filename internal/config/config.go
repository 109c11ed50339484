package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramToken string `envconfig:"TELEGRAM_TOKEN" required:"true"`

	Storage struct {
		Driver      string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
		SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/payments.db"`
		SupabaseURL string `envconfig:"SUPABASE_URL"`
		SupabaseKey string `envconfig:"SUPABASE_KEY"`
	}

	Reminder struct {
		Hour     int    `envconfig:"REMINDER_HOUR" default:"9"`
		Minute   int    `envconfig:"REMINDER_MINUTE" default:"0"`
		Timezone string `envconfig:"TIMEZONE" default:"Europe/Moscow"`
	}
}

// Location парсит настроенный часовой пояс напоминаний
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Reminder.Timezone, err)
	}
	return loc, nil
}

func LoadConfig() (*Config, error) {
	// .env опционален: в облаке переменные приходят из окружения
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
