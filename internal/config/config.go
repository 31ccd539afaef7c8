package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

type Config struct {
	Env                  string `env:"TASKMINT_ENV" env-default:"local"`
	DatabasePath         string `env:"TASKMINT_DB_PATH" env-default:"taskmint.db"`
	SchedulerBuffer      int    `env:"TASKMINT_SCHEDULER_BUFFER" env-default:"64"`
	DesktopNotifications bool   `env:"TASKMINT_DESKTOP_NOTIFICATIONS" env-default:"true"`
}

// Load reads configuration from the environment, after merging in a
// .env file when one exists. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SchedulerBuffer <= 0 {
		cfg.SchedulerBuffer = 64
	}
	return cfg, nil
}
