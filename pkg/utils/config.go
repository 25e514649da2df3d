package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Query    QueryConfig
	Cache    CacheConfig
	Events   EventsConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type BookingConfig struct {
	HoldTTLMinutes     int
	MaxSeatsPerRequest int
}

type QueryConfig struct {
	// DefaultConsistency is the availability mode used when a listing
	// request does not ask for one: "strong" or "cached".
	DefaultConsistency string
}

type CacheConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type EventsConfig struct {
	URL   string
	Queue string
}

type JobsConfig struct {
	AuditIntervalMinutes int
	SweepIntervalSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("HOLD_TTL_MINUTES", 10)
	viper.SetDefault("MAX_SEATS_PER_REQUEST", 10)
	viper.SetDefault("CONSISTENCY_DEFAULT", "strong")
	viper.SetDefault("CACHE_TTL_SECONDS", 5)
	viper.SetDefault("EVENT_QUEUE", "reservation.events")
	viper.SetDefault("AUDIT_INTERVAL_MINUTES", 5)
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 30)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			HoldTTLMinutes:     viper.GetInt("HOLD_TTL_MINUTES"),
			MaxSeatsPerRequest: viper.GetInt("MAX_SEATS_PER_REQUEST"),
		},
		Query: QueryConfig{
			DefaultConsistency: viper.GetString("CONSISTENCY_DEFAULT"),
		},
		Cache: CacheConfig{
			Addr:       viper.GetString("REDIS_ADDR"),
			Password:   viper.GetString("REDIS_PASS"),
			DB:         viper.GetInt("REDIS_DB"),
			TTLSeconds: viper.GetInt("CACHE_TTL_SECONDS"),
		},
		Events: EventsConfig{
			URL:   viper.GetString("AMQP_URL"),
			Queue: viper.GetString("EVENT_QUEUE"),
		},
		Jobs: JobsConfig{
			AuditIntervalMinutes: viper.GetInt("AUDIT_INTERVAL_MINUTES"),
			SweepIntervalSeconds: viper.GetInt("SWEEP_INTERVAL_SECONDS"),
		},
	}

	return config, nil
}
