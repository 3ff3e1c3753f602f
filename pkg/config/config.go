package config

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type SqliteConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type AppConfig struct {
	Env string `mapstructure:"env" validate:"required,oneof=local dev prod"`
}

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %s. Using system environment variables", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("app.env", EnvLocal)
	viper.SetDefault("sqlite.path", "carts.db")

	if err := viper.ReadInConfig(); err != nil {
		// Defaults and env vars are enough to run; only a present but
		// unreadable file is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Error reading config file, %s\n", err)
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Printf("Unable to decode into struct, %v\n", err)
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		log.Printf("Invalid config, %v\n", err)
		return nil, err
	}

	return &cfg, nil
}
