package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Addr            string
	DSN             string
	SessionSecret   string
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	GoogleKey       string
	GoogleSecret    string
	CallbackURL     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	viper.AutomaticEnv()

	cfg := &Config{
		Addr:            viper.GetString("addr"),
		DSN:             viper.GetString("dsn"),
		SessionSecret:   viper.GetString("session_secret"),
		AccountID:       viper.GetString("account_id"),
		AccessKeyID:     viper.GetString("access_key_id"),
		AccessKeySecret: viper.GetString("access_key_secret"),
		GoogleKey:       viper.GetString("google_key"),
		GoogleSecret:    viper.GetString("google_secret"),
		CallbackURL:     viper.GetString("callback_url"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	if cfg.CallbackURL == "" {
		cfg.CallbackURL = "http://localhost:3000/auth/google/callback"
	}
	return cfg
}
