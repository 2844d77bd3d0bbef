// Package config loads runtime configuration from an optional .env file and
// the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/clarkeh/go-time-ledger/internal/util"
)

// Config holds all runtime settings.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	DataDir     string `mapstructure:"DATA_DIR"`
	Timezone    string `mapstructure:"TIMEZONE"`
	LogFile     string `mapstructure:"LOG_FILE"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	StaticDir   string `mapstructure:"STATIC_DIR"`
	HistoryDays int    `mapstructure:"HISTORY_DAYS"`
}

// Load reads configuration from <path>/.env plus the environment. A missing
// config file is fine; defaults cover everything.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("DATA_DIR", "~/Dropbox")
	v.SetDefault("TIMEZONE", util.DefaultReferenceZone)
	v.SetDefault("LOG_FILE", "~/.go-time-ledger/logs/app.log")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("HISTORY_DAYS", 6)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, nil
}
