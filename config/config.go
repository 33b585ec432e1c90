package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Redis     Redis
	Session   Session
	Selection Selection
	Schedule  Schedule
	Operator  Operator
	Log       Log
}

type Server struct {
	Port string
}

type Database struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite file
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Session struct {
	Store  string // memory or redis
	Resume bool
	TTL    time.Duration
}

type Selection struct {
	Strategy string // new_first or debt_first
	Seed     int64
}

type Schedule struct {
	Lines       []int
	Window      int
	DailyQuota  int
	NumericLine int
	Location    *time.Location
}

type Operator struct {
	ChatID         int64
	WebhookURL     string
	NotifyInterval time.Duration
}

type Log struct {
	Level  string
	Pretty bool
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_PATH", "litdrill.db")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_STORE", "memory")
	viper.SetDefault("SESSION_RESUME", true)
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("SELECTION_STRATEGY", "new_first")
	viper.SetDefault("SELECTION_SEED", 0)
	viper.SetDefault("SCHEDULE_LINES", "1,2,3,6,7,8")
	viper.SetDefault("SCHEDULE_WINDOW", 5)
	viper.SetDefault("DAILY_QUOTA", 5)
	viper.SetDefault("NUMERIC_LINE", 8)
	viper.SetDefault("TIMEZONE", "Europe/Moscow")
	viper.SetDefault("NOTIFY_INTERVAL", "200ms")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
}

func NewConfig() (*Config, error) {
	if file := viper.GetString("config"); file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("PORT")

	config.Database.Driver = strings.ToLower(viper.GetString("DB_DRIVER"))
	config.Database.Host = viper.GetString("DB_HOST")
	config.Database.Port = viper.GetString("DB_PORT")
	config.Database.User = viper.GetString("DB_USER")
	config.Database.Password = viper.GetString("DB_PASSWORD")
	config.Database.Name = viper.GetString("DB_NAME")
	config.Database.Path = viper.GetString("DB_PATH")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.Session.Store = strings.ToLower(viper.GetString("SESSION_STORE"))
	config.Session.Resume = viper.GetBool("SESSION_RESUME")
	config.Session.TTL = viper.GetDuration("SESSION_TTL")

	config.Selection.Strategy = strings.ToLower(viper.GetString("SELECTION_STRATEGY"))
	config.Selection.Seed = viper.GetInt64("SELECTION_SEED")

	lines, err := parseLines(viper.GetString("SCHEDULE_LINES"))
	if err != nil {
		return nil, err
	}
	config.Schedule.Lines = lines
	config.Schedule.Window = viper.GetInt("SCHEDULE_WINDOW")
	config.Schedule.DailyQuota = viper.GetInt("DAILY_QUOTA")
	config.Schedule.NumericLine = viper.GetInt("NUMERIC_LINE")

	loc, err := time.LoadLocation(viper.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", viper.GetString("TIMEZONE"), err)
	}
	config.Schedule.Location = loc

	config.Operator.ChatID = viper.GetInt64("OPERATOR_CHAT_ID")
	config.Operator.WebhookURL = viper.GetString("NOTIFY_WEBHOOK_URL")
	config.Operator.NotifyInterval = viper.GetDuration("NOTIFY_INTERVAL")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", config.Database.Driver).
		Str("session_store", config.Session.Store).
		Bool("session_resume", config.Session.Resume).
		Str("selection_strategy", config.Selection.Strategy).
		Ints("lines", config.Schedule.Lines).
		Msg("Config loaded")
	return &config, nil
}

// Validate rejects combinations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Store)
	}
	switch c.Selection.Strategy {
	case "new_first", "debt_first":
	default:
		return fmt.Errorf("unsupported SELECTION_STRATEGY %q", c.Selection.Strategy)
	}
	if len(c.Schedule.Lines) == 0 {
		return fmt.Errorf("SCHEDULE_LINES must not be empty")
	}
	if c.Schedule.Window <= 0 || c.Schedule.Window > len(c.Schedule.Lines) {
		return fmt.Errorf("SCHEDULE_WINDOW must be between 1 and %d", len(c.Schedule.Lines))
	}
	if c.Schedule.DailyQuota <= 0 {
		return fmt.Errorf("DAILY_QUOTA must be positive")
	}
	return nil
}

func parseLines(raw string) ([]int, error) {
	var lines []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid SCHEDULE_LINES entry %q: %w", part, err)
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate SCHEDULE_LINES entry %d", n)
		}
		seen[n] = true
		lines = append(lines, n)
	}
	return lines, nil
}
