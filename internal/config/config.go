package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Casino   CasinoConfig   `mapstructure:"casino"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // hours
}

type AdminConfig struct {
	APIToken string `mapstructure:"apiToken"`
}

type CasinoConfig struct {
	StartingBalance int64             `mapstructure:"startingBalance"`
	Tables          []TableLimitEntry `mapstructure:"tables"`
}

type TableLimitEntry struct {
	Game   string `mapstructure:"game"`
	MinBet int64  `mapstructure:"minBet"`
	MaxBet int64  `mapstructure:"maxBet"`
}

var GlobalConfig *Config

func LoadConfig(path string) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	applyDefaults(&cfg)
	GlobalConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Casino.StartingBalance <= 0 {
		cfg.Casino.StartingBalance = 1000
	}
	if len(cfg.Casino.Tables) == 0 {
		cfg.Casino.Tables = []TableLimitEntry{
			{Game: "blackjack", MinBet: 1, MaxBet: 500},
			{Game: "roulette", MinBet: 1, MaxBet: 500},
			{Game: "baccarat", MinBet: 1, MaxBet: 500},
		}
	}
}
