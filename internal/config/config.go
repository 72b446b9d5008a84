package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrMissingMongoURI = errors.New("MONGO_URI is required")

// Config holds service configuration loaded from an optional config file
// and environment variables.
type Config struct {
	HTTPAddr    string   `mapstructure:"http_addr"`       // listen address for the API
	MongoURI    string   `mapstructure:"-"`               // Mongo connection string, environment only
	MongoDB     string   `mapstructure:"mongo_db"`        // database name
	OpenTDBURL  string   `mapstructure:"opentdb_url"`     // Question Source base URL
	RabbitURI   string   `mapstructure:"-"`               // AMQP connection string, empty disables events
	RabbitXchg  string   `mapstructure:"rabbit_exchange"` // topic exchange for lifecycle events
	RedisAddr   string   `mapstructure:"redis_addr"`      // empty disables the daily-count cache
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Load reads configuration from ./config/config.yaml when present, then
// environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("mongo_db", "trivia_service")
	v.SetDefault("opentdb_url", "https://opentdb.com/api.php")
	v.SetDefault("rabbit_exchange", "trivia.events")
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("mongo_uri", "MONGO_URI")
	_ = v.BindEnv("rabbitmq_uri", "RABBITMQ_URI")
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.MongoURI = v.GetString("mongo_uri")
	if cfg.MongoURI == "" {
		return nil, ErrMissingMongoURI
	}
	cfg.RabbitURI = v.GetString("rabbitmq_uri")

	return &cfg, nil
}
