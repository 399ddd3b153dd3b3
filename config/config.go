package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	App struct {
		Name string `mapstructure:"NAME"`
		Port string `mapstructure:"PORT"`
	}

	DATABASE struct {
		Postgres struct {
			DSN         string `mapstructure:"URL"`
			AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
		}
	}

	SOCKET struct {
		Path string `mapstructure:"PATH"`
	}

	CHAT struct {
		PageSize     int           `mapstructure:"PAGE_SIZE"`
		PollInterval time.Duration `mapstructure:"POLL_INTERVAL"`
	}
}

var Conf *AppConfig

func LoadConfig() error {
	viper.SetConfigName("application")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CONCORD")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SOCKET.PATH", "/socket/io")
	viper.SetDefault("DATABASE.POSTGRES.AUTO_MIGRATE", true)
	viper.SetDefault("CHAT.PAGE_SIZE", 10)
	viper.SetDefault("CHAT.POLL_INTERVAL", time.Second)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	Conf = &config
	log.Info().Msg("configuration loaded...")
	return nil
}
