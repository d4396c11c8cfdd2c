package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. LINGO_DATABASE_URL.
const EnvPrefix = "LINGO"

// keys lists every configuration key so viper can resolve it from the
// environment even when no file or default mentions it.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.read_timeout",
	"server.write_timeout",
	"server.shutdown_timeout",
	"server.rate_limit_per_second",
	"server.rate_limit_burst",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime",
	"auth.jwt_secret",
	"auth.token_lifetime",
	"scheduler.timezone",
	"scheduler.max_conflict_retries",
	"scheduler.candidate_batch",
	"scheduler.easy_multiplier",
	"scheduler.correct_multiplier",
	"scheduler.hard_multiplier",
	"scheduler.min_interval_days",
	"scheduler.max_interval_days",
	"quiz.pool_ttl",
	"quiz.distractor_count",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.rate_limit_per_second", 5.0)
	v.SetDefault("server.rate_limit_burst", 10)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("auth.token_lifetime", "60m")

	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("scheduler.max_conflict_retries", 3)
	v.SetDefault("scheduler.candidate_batch", 10)
	v.SetDefault("scheduler.easy_multiplier", 2.0)
	v.SetDefault("scheduler.correct_multiplier", 1.4)
	v.SetDefault("scheduler.hard_multiplier", 0.75)
	v.SetDefault("scheduler.min_interval_days", 1.0)
	v.SetDefault("scheduler.max_interval_days", 36500.0)

	v.SetDefault("quiz.pool_ttl", "10m")
	v.SetDefault("quiz.distractor_count", 3)
}

// Load reads configuration from ./config.yaml (optional), a .env file
// (optional) and LINGO_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit configuration file. An empty path looks
// for config.yaml in the working directory and tolerates its absence; an
// explicit path must exist.
func LoadFile(path string) (*Config, error) {
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
