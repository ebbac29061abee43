package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Leaderboard Leaderboard `mapstructure:",squash"`
	Resync      Resync      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Leaderboard tunes the live reconciler.
type Leaderboard struct {
	HighlightWindowSeconds int `mapstructure:"leaderboard_highlight_window_seconds"`
	TickerSize             int `mapstructure:"leaderboard_ticker_size"`
	EventBufferSize        int `mapstructure:"leaderboard_event_buffer_size"`
}

// HighlightWindow is the duration a fresh deal keeps its mitra highlighted.
func (l Leaderboard) HighlightWindow() time.Duration {
	return time.Duration(l.HighlightWindowSeconds) * time.Second
}

// Resync configures the periodic full reload that heals missed stream events.
type Resync struct {
	CronSchedule string `mapstructure:"leaderboard_resync_cron"`
	Enabled      bool   `mapstructure:"leaderboard_resync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/expo_leaderboard")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("LEADERBOARD_HIGHLIGHT_WINDOW_SECONDS", 3)
	viper.SetDefault("LEADERBOARD_TICKER_SIZE", 8)
	viper.SetDefault("LEADERBOARD_EVENT_BUFFER_SIZE", 256)

	viper.SetDefault("LEADERBOARD_RESYNC_CRON", "*/30 * * * *")
	viper.SetDefault("LEADERBOARD_RESYNC_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded by godotenv (viper could not read .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile loads a local .env file when one is around
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not resolve working directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("loaded .env from:", location)
			return
		}
	}
}
