package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Quiz      QuizConfig      `mapstructure:"quiz" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`

	// Grade submissions allowed per learner per second, and the burst on top of it.
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gt=0"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst" validate:"gt=0"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains bearer-token validation settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// SchedulerConfig tunes next-card selection and grade submission.
type SchedulerConfig struct {
	// Timezone is the IANA zone used to decide which calendar day "today" is.
	Timezone           string `mapstructure:"timezone" validate:"required,timezone"`
	MaxConflictRetries int    `mapstructure:"max_conflict_retries" validate:"gte=0,lte=10"`
	CandidateBatch     int    `mapstructure:"candidate_batch" validate:"gt=0,lte=500"`

	// Interval multipliers per grade. Wrong always resets the interval.
	EasyMultiplier    float64 `mapstructure:"easy_multiplier" validate:"gt=0"`
	CorrectMultiplier float64 `mapstructure:"correct_multiplier" validate:"gt=0"`
	HardMultiplier    float64 `mapstructure:"hard_multiplier" validate:"gt=0"`

	// MinIntervalDays floors the interval after a Hard grade; MaxIntervalDays
	// caps every interval.
	MinIntervalDays float64 `mapstructure:"min_interval_days" validate:"gt=0"`
	MaxIntervalDays float64 `mapstructure:"max_interval_days" validate:"gt=0,gtefield=MinIntervalDays"`
}

// QuizConfig contains distractor pool settings.
type QuizConfig struct {
	PoolTTL         time.Duration `mapstructure:"pool_ttl" validate:"gt=0"`
	DistractorCount int           `mapstructure:"distractor_count" validate:"gt=0,lte=20"`
}

// Location resolves the scheduler time zone. Validation guarantees the name loads.
func (c SchedulerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
