package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds the runtime configuration parsed from BIRTHDAY_* environment
// variables.
type Config struct {
	Logger   Logger  `envPrefix:"LOGGER_"`
	HTTP     HTTP    `envPrefix:"HTTP_"`
	Storage  Storage `envPrefix:"STORAGE_"`
	LLM      LLM     `envPrefix:"LLM_"`
	SMTP     SMTP    `envPrefix:"SMTP_"`
	Language string  `env:"LANGUAGE,expand" envDefault:"en"`
}

type Logger struct {
	Level int `env:"LEVEL,expand" envDefault:"0"`
}

type HTTP struct {
	Address string `env:"ADDRESS,expand" envDefault:":3001"`
}

type Storage struct {
	Database Database `envPrefix:"DATABASE_"`
}

type Database struct {
	// DSN is required: refusing to start without a datastore mirrors the
	// original deployment contract.
	DSN string `env:"DSN,required"`
}

type LLM struct {
	Provider LLMProvider `envPrefix:"PROVIDER_"`
}

type LLMProvider struct {
	Name                string        `env:"NAME,expand" envDefault:"openai"`
	BaseURL             string        `env:"BASE_URL,expand" envDefault:"https://api.mistral.ai/v1/"`
	Key                 string        `env:"KEY,expand"`
	ChatCompletionModel string        `env:"CHAT_COMPLETION_MODEL,expand" envDefault:"mistral-small-latest"`
	RateLimit           time.Duration `env:"RATE_LIMIT,expand" envDefault:"0"`
}

type SMTP struct {
	Host     string `env:"HOST,expand"`
	Port     int    `env:"PORT,expand" envDefault:"587"`
	Username string `env:"USERNAME,expand"`
	Password string `env:"PASSWORD,expand"`
	From     string `env:"FROM,expand"`
}

// Parse reads the process environment into a Config.
func Parse() (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: EnvPrefix,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &conf, nil
}
